// Command keymatdec decodes a PEM-encoded ECDSA key and prints what it
// found: the key kind, curve, and raw key bytes.
package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"keymatdec.dev/keymatdec"
)

var flagInput = &cli.StringFlag{
	Name:     "in",
	Aliases:  []string{"i"},
	Required: true,
	Usage:    "path to a PEM file containing one EC key",
}

var flagVerify = &cli.BoolFlag{
	Name:  "verify",
	Usage: "confirm the decoded point/scalar round-trips through crypto/ecdsa",
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	app := &cli.App{
		Name:  "keymatdec",
		Usage: "decode PEM-wrapped ECDSA key material",
		Flags: []cli.Flag{flagInput, flagVerify},
		Action: func(cCtx *cli.Context) error {
			return run(cCtx, logger)
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("keymatdec failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cCtx *cli.Context, logger *zap.Logger) error {
	path := cCtx.String(flagInput.Name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	key, err := keymatdec.DecodeKey(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	logger.Info("decoded key",
		zap.String("path", path),
		zap.Stringer("kind", key.Kind),
		zap.String("curve", key.Curve.String()),
		zap.Int("bytes", len(key.Bytes)),
	)
	fmt.Printf("kind:  %s\n", key.Kind)
	fmt.Printf("curve: %s\n", key.Curve)
	fmt.Printf("bytes: %s\n", hex.EncodeToString(key.Bytes))

	if cCtx.Bool(flagVerify.Name) {
		if err := verify(key); err != nil {
			return fmt.Errorf("verifying %s: %w", path, err)
		}
		fmt.Println("verify: ok")
	}
	return nil
}

// verify exercises the decoded bytes against crypto/ecdsa, as a sanity check
// that this module's parsing agrees with the standard library's.
func verify(key *keymatdec.DecodedKey) error {
	if !key.Curve.Equal(keymatdec.OIDNamedCurveP256()) {
		return errors.New("only P-256 keys are supported by -verify")
	}
	curve := elliptic.P256()

	switch key.Kind {
	case keymatdec.KeyKindECPrivateKey:
		d := new(big.Int).SetBytes(key.Bytes)
		priv := new(ecdsa.PrivateKey)
		priv.Curve = curve
		priv.D = d
		priv.PublicKey.X, priv.PublicKey.Y = curve.ScalarBaseMult(d.Bytes())
		if !curve.IsOnCurve(priv.PublicKey.X, priv.PublicKey.Y) {
			return errors.New("derived public point is not on the curve")
		}
		return nil
	case keymatdec.KeyKindECPublicKey:
		x, y := elliptic.Unmarshal(curve, key.Bytes)
		if x == nil {
			return errors.New("public key bytes are not a valid uncompressed point")
		}
		if _, err := x509.MarshalPKIXPublicKey(&ecdsa.PublicKey{Curve: curve, X: x, Y: y}); err != nil {
			return fmt.Errorf("re-marshaling public key: %w", err)
		}
		return nil
	default:
		return errors.New("unknown key kind")
	}
}
