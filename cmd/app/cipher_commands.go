package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/encryptor/cmd/app/commands"
	"github.com/allisson/encryptor/internal/app"
	"github.com/allisson/encryptor/internal/config"
)

func getCipherCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt",
			Usage: "Encrypt a value and print its stored form",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "kind",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Cipher kind (digest, symmetric, asymmetric, password, kms)",
				},
				&cli.StringFlag{
					Name:     "value",
					Aliases:  []string{"v"},
					Required: true,
					Usage:    "Plaintext to encrypt",
				},
				optionFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunEncrypt(
					ctx,
					container.CipherFactory(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kind"),
					cmd.StringSlice("option"),
					cmd.String("value"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "decrypt",
			Usage: "Decrypt a stored value (enc:<kind>:<payload>)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "kind",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Cipher kind (symmetric, asymmetric, kms)",
				},
				&cli.StringFlag{
					Name:     "value",
					Aliases:  []string{"v"},
					Required: true,
					Usage:    "Stored value to decrypt",
				},
				optionFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunDecrypt(
					ctx,
					container.CipherFactory(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kind"),
					cmd.StringSlice("option"),
					cmd.String("value"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "verify-password",
			Usage: "Check a plaintext password against a stored password hash",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "password",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Plaintext password",
				},
				&cli.StringFlag{
					Name:     "hash",
					Required: true,
					Usage:    "Stored hash (enc:password:...)",
				},
				optionFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunVerifyPassword(
					ctx,
					container.CipherFactory(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.StringSlice("option"),
					cmd.String("password"),
					cmd.String("hash"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-keypair",
			Usage: "Generate a key pair for the asymmetric cipher kind",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateKeyPair(container.Logger(), commands.DefaultIO().Writer, cmd.String("format"))
			},
		},
		{
			Name:  "create-local-kms-key",
			Usage: "Generate a base64key:// URI for the localsecrets KMS driver (development only)",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateLocalKMSKey(
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}
