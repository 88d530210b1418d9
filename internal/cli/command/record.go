package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/securetoken-go/internal/cli/output"
	"github.com/yndnr/securetoken-go/internal/core/domain"
)

// RecordCommand returns the record subcommand group.
func RecordCommand() *cli.Command {
	return &cli.Command{
		Name:    "record",
		Aliases: []string{"rec"},
		Usage:   "Manage records and their token fields",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a record; declared token fields auto-populate",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "kind",
						Aliases:  []string{"k"},
						Usage:    "Record kind (e.g. user, api_client)",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "set",
						Aliases: []string{"f"},
						Usage:   "Set a field as NAME=VALUE (repeatable)",
					},
				},
				Action: recordCreate,
			},
			{
				Name:      "get",
				Usage:     "Get record details",
				ArgsUsage: "RECORD_ID",
				Action:    recordGet,
			},
			{
				Name:  "list",
				Usage: "List records",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "kind",
						Aliases: []string{"k"},
						Usage:   "Filter by kind",
					},
				},
				Action: recordList,
			},
			{
				Name:      "regenerate",
				Aliases:   []string{"regen"},
				Usage:     "Rotate one token field and persist the new value",
				ArgsUsage: "RECORD_ID ATTRIBUTE",
				Action:    recordRegenerate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a record",
				ArgsUsage: "RECORD_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: recordDelete,
			},
		},
	}
}

func recordCreate(c *cli.Context) error {
	fields, err := parseFieldArgs(c.StringSlice("set"))
	if err != nil {
		return err
	}

	env, err := openEnv(c)
	if err != nil {
		return err
	}
	defer env.Close()

	rec, err := env.svc.Create(c.Context, c.String("kind"), fields)
	if err != nil {
		return err
	}
	env.metrics.RecordsCreated.Inc()

	return env.formatter().Format(writer(c), recordDetail(rec))
}

func recordGet(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("record ID required")
	}

	env, err := openEnv(c)
	if err != nil {
		return err
	}
	defer env.Close()

	rec, err := env.svc.Get(c.Context, id)
	if err != nil {
		return err
	}

	return env.formatter().Format(writer(c), recordDetail(rec))
}

func recordList(c *cli.Context) error {
	env, err := openEnv(c)
	if err != nil {
		return err
	}
	defer env.Close()

	recs, err := env.svc.List(c.Context, c.String("kind"))
	if err != nil {
		return err
	}

	if env.cfg.Output != "table" {
		return env.formatter().Format(writer(c), recs)
	}

	table := &output.Table{}
	table.SetHeaders("ID", "KIND", "VERSION", "FIELDS")
	for _, rec := range recs {
		table.AddRow(rec.ID, rec.Kind, strconv.FormatUint(rec.Version, 10),
			strings.Join(fieldNames(rec), ","))
	}
	return env.formatter().Format(writer(c), table)
}

func recordRegenerate(c *cli.Context) error {
	id := c.Args().Get(0)
	attribute := c.Args().Get(1)
	if id == "" || attribute == "" {
		return fmt.Errorf("usage: record regenerate RECORD_ID ATTRIBUTE")
	}

	env, err := openEnv(c)
	if err != nil {
		return err
	}
	defer env.Close()

	rec, err := env.svc.Regenerate(c.Context, id, attribute)
	if err != nil {
		return err
	}

	return env.formatter().Format(writer(c), recordDetail(rec))
}

func recordDelete(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("record ID required")
	}

	if !c.Bool("force") {
		fmt.Fprintf(writer(c), "Delete record %s? [y/N]: ", id)
		var answer string
		fmt.Fscanln(c.App.Reader, &answer)
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(writer(c), "aborted")
			return nil
		}
	}

	env, err := openEnv(c)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.svc.Delete(c.Context, id); err != nil {
		return err
	}
	env.metrics.RecordsDeleted.Inc()

	fmt.Fprintf(writer(c), "deleted %s\n", id)
	return nil
}

// parseFieldArgs parses NAME=VALUE pairs.
func parseFieldArgs(pairs []string) (map[string]string, error) {
	fields := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid field %q, expected NAME=VALUE", pair)
		}
		fields[name] = value
	}
	return fields, nil
}

// recordDetail flattens a record for single-record output.
func recordDetail(rec *domain.Record) map[string]any {
	detail := map[string]any{
		"id":         rec.ID,
		"kind":       rec.Kind,
		"version":    rec.Version,
		"created_at": rec.CreatedAt,
		"updated_at": rec.UpdatedAt,
	}
	for name, value := range rec.Fields {
		detail["field:"+name] = value
	}
	return detail
}

// fieldNames returns a record's field names in sorted order.
func fieldNames(rec *domain.Record) []string {
	names := make([]string, 0, len(rec.Fields))
	for name := range rec.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
