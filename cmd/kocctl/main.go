// cmd/kocctl/main.go
// kocctl drives the collaboration sheet from the command line:
// bulk import from a workbook, export to a workbook, and a quick
// grouped listing.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/botuai88-lab/Sohaco-KOC/internal/config"
	"github.com/botuai88-lab/Sohaco-KOC/internal/grouping"
	"github.com/botuai88-lab/Sohaco-KOC/internal/service"
	"github.com/botuai88-lab/Sohaco-KOC/internal/sheet"
	"github.com/botuai88-lab/Sohaco-KOC/internal/xlsx"
	"github.com/botuai88-lab/Sohaco-KOC/pkg/logger"
)

func newScriptURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "script-url",
		Usage:   "Apps Script web app URL fronting the sheet",
		EnvVars: []string{"SHEET_SCRIPT_URL"},
	}
}

func newService(c *cli.Context) (*service.KOCService, error) {
	sheetCfg := config.Load().Sheet
	if url := c.String("script-url"); url != "" {
		sheetCfg.ScriptURL = url
	}
	if err := sheetCfg.Validate(); err != nil {
		return nil, err
	}

	gateway := sheet.NewClient(sheetCfg, &http.Client{Timeout: 60 * time.Second})
	return service.NewKOCService(gateway, nil), nil
}

func runExport(c *cli.Context) error {
	svc, err := newService(c)
	if err != nil {
		return err
	}

	records, err := svc.Records(c.Context)
	if err != nil {
		return err
	}

	wb, err := xlsx.Export(records)
	if err != nil {
		return err
	}
	defer wb.Close()

	out := c.String("out")
	if out == "" {
		out = filepath.Join(config.Load().App.ExportDir, "danh_sach_koc_chi_tiet.xlsx")
	}
	if err := wb.SaveAs(out); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	logger.Log.Info().Int("records", len(records)).Str("file", out).Msg("export complete")
	return nil
}

func runImport(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: kocctl import <workbook.xlsx>")
	}
	path := c.Args().First()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	kocs, err := xlsx.Import(f)
	if err != nil {
		return err
	}
	if len(kocs) == 0 {
		return fmt.Errorf("%s has no importable rows", path)
	}

	if c.Bool("dry-run") {
		logger.Log.Info().Int("rows", len(kocs)).Msg("dry run, nothing sent")
		return nil
	}

	svc, err := newService(c)
	if err != nil {
		return err
	}

	created, err := svc.Import(c.Context, kocs)
	if err != nil {
		return err
	}

	logger.Log.Info().Int("imported", len(created)).Msg("import complete")
	return nil
}

func runList(c *cli.Context) error {
	svc, err := newService(c)
	if err != nil {
		return err
	}

	records, err := svc.Records(c.Context)
	if err != nil {
		return err
	}

	groups := grouping.Group(records)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "IDENTIFIER\tNAME\tPROVINCE\tFOLLOWERS\tCOLLABS")
	for _, g := range groups {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			g.Identifier, g.MainInfo.Name, g.MainInfo.Province,
			g.MainInfo.Followers, len(g.Collaborations))
	}
	return w.Flush()
}

func main() {
	app := &cli.App{
		Name:  "kocctl",
		Usage: "manage KOC collaborations stored in the sheet",
		Flags: []cli.Flag{newScriptURLFlag()},
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "download all collaborations into a workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "output file path (defaults into the export directory)",
					},
				},
				Action: runExport,
			},
			{
				Name:      "import",
				Usage:     "batch-create collaborations from a workbook",
				ArgsUsage: "<workbook.xlsx>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "parse the workbook without sending anything",
					},
				},
				Action: runImport,
			},
			{
				Name:   "list",
				Usage:  "print the grouped collaboration list",
				Action: runList,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}
