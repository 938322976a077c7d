package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ahmedbana/upload-to-azure/internal/config"
	"github.com/ahmedbana/upload-to-azure/internal/imaging"
	"github.com/ahmedbana/upload-to-azure/internal/node"
)

func newUploadCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		files  []string
		batch  bool
		inputs node.Inputs
	)

	cmd := &cobra.Command{
		Use:   "upload --file imagem.png [--file outra.jpg]",
		Short: "Envia imagens locais usando o mesmo fluxo do nó",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(files) == 0 {
				return errors.New("informe ao menos um --file")
			}
			if !batch && len(files) > 1 {
				return errors.New("vários --file exigem --batch; sem ele só uma imagem é enviada")
			}

			input, err := loadInput(files, batch)
			if err != nil {
				return err
			}

			name := node.SingleName
			if batch {
				name = node.BatchName
			}
			n, _ := newRegistry(cfg).Get(name)

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
			defer stop()

			text, report := n.Execute(ctx, input, inputs)

			out := cmd.OutOrStdout()
			if *jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(map[string]any{
					"node":    n.Name(),
					"status":  text,
					"ok":      report.OK(),
					"results": report.Results,
					"counts":  report.Counts(),
				}); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, text)
			}

			if counts := report.Counts(); counts.Failed > 0 {
				return fmt.Errorf("%d de %d imagens falharam", counts.Failed, input.Len())
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&files, "file", "f", nil, "imagem local (png, jpeg ou gif); repetível")
	flags.BoolVar(&batch, "batch", false, "usa o nó em lote (nomes gerados, webhook, scene order)")
	flags.StringVar(&inputs.DestinationBlobName, "name", "", "nome fixo do blob (apenas sem --batch)")
	flags.StringVar(&inputs.BaseURL, "base-url", "", "URL do container (padrão BLOB_BASE_URL)")
	flags.StringVar(&inputs.SASToken, "sas-token", "", "token SAS (padrão BLOB_SAS_TOKEN)")
	flags.StringVar(&inputs.GenerationID, "generation-id", "", "id da geração")
	flags.StringVar(&inputs.WebhookURL, "webhook-url", "", "webhook de scene-completed (padrão WEBHOOK_URL)")
	flags.StringVar(&inputs.SceneOrder, "scene-order", "", "ordens de cena separadas por vírgula")
	flags.StringVar(&inputs.Type, "type", "", "tipo repassado ao webhook")

	return cmd
}

func loadInput(paths []string, batch bool) (imaging.Input, error) {
	images := make(imaging.Batch, 0, len(paths))
	for _, path := range paths {
		img, err := loadImage(path)
		if err != nil {
			return imaging.Input{}, err
		}
		images = append(images, img)
	}

	if !batch {
		return imaging.NewSingle(images[0]), nil
	}
	return imaging.NewBatch(images), nil
}

func loadImage(path string) (imaging.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return imaging.Image{}, fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return imaging.Image{}, fmt.Errorf("decodificar %s: %w", path, err)
	}
	return img, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
