package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/encryptor/cmd/app/commands"
	"github.com/allisson/encryptor/internal/app"
	"github.com/allisson/encryptor/internal/config"
)

func schemaFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "collection",
			Aliases:  []string{"c"},
			Required: true,
			Usage:    "Document collection",
		},
		&cli.StringSliceFlag{
			Name:  "field",
			Usage: "Declared plaintext field (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:    "encrypt",
			Aliases: []string{"e"},
			Usage:   "Field encrypted with --kind and --option (repeatable)",
		},
		&cli.StringFlag{
			Name:    "kind",
			Aliases: []string{"k"},
			Value:   "symmetric",
			Usage:   "Cipher kind for encrypted fields",
		},
		optionFlag(),
		formatFlag(),
	}
}

func schemaInput(cmd *cli.Command) commands.SchemaInput {
	return commands.SchemaInput{
		Collection: cmd.String("collection"),
		Fields:     cmd.StringSlice("field"),
		Encrypted:  cmd.StringSlice("encrypt"),
		Kind:       cmd.String("kind"),
		Options:    cmd.StringSlice("option"),
	}
}

func getDocumentCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "save-document",
			Usage: "Create a document, encrypting the --encrypt fields",
			Flags: append(schemaFlags(), &cli.StringSliceFlag{
				Name:     "set",
				Aliases:  []string{"s"},
				Required: true,
				Usage:    "Attribute as name=value (repeatable)",
			}),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunSaveDocument(
					ctx,
					container.DocumentUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					schemaInput(cmd),
					cmd.StringSlice("set"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "read-document",
			Usage: "Load a document and print its declared fields, decrypting where possible",
			Flags: append(schemaFlags(), &cli.StringFlag{
				Name:     "id",
				Aliases:  []string{"i"},
				Required: true,
				Usage:    "Document ID (UUID)",
			}),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunReadDocument(
					ctx,
					container.DocumentUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					schemaInput(cmd),
					cmd.String("id"),
					cmd.String("format"),
				)
			},
		},
	}
}
