/*
main.go - Headless bonus calculation

PURPOSE:
  Runs the whole month in one command for when nobody needs to review the
  tables: import both reference lists and the sales batch, assign roles
  from a YAML file, and write the payroll workbook.

COMMAND-LINE FLAGS:
  -points   Pharmacist point list (.xlsx/.xls/.csv)
  -rewards  Reward list
  -sales    Sales export
  -roles    YAML file mapping person to role (optional; missing = SALES)
  -config   Config file for catalog overrides (default: bonus.yaml)
  -out      Output path (default: 獎金計算報表_<today>.xlsx)

ROLE FILE:
  王小明: SALES
  陳藥師: PHARMACIST
  林店長: NO_BONUS

SEE ALSO:
  - cmd/server: Interactive console
  - session/: The workflow this command drives
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/warp/bonus-engine/config"
	"github.com/warp/bonus-engine/export"
	"github.com/warp/bonus-engine/generic"
	"github.com/warp/bonus-engine/session"
	"github.com/warp/bonus-engine/tabular"
	"gopkg.in/yaml.v3"
)

func main() {
	points := flag.String("points", "", "Pharmacist point list")
	rewards := flag.String("rewards", "", "Reward list")
	sales := flag.String("sales", "", "Sales export")
	rolesPath := flag.String("roles", "", "Role file (YAML person: role)")
	configPath := flag.String("config", config.DefaultConfigFile, "Config file path")
	out := flag.String("out", "", "Output workbook path")
	flag.Parse()

	if *points == "" || *rewards == "" || *sales == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *out == "" {
		*out = export.DefaultFilename(time.Now())
	}

	if err := run(context.Background(), *configPath, *points, *rewards, *sales, *rolesPath, *out); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Printf("✅ Wrote %s", *out)
}

func run(ctx context.Context, configPath, points, rewards, sales, rolesPath, out string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	catalog, err := cfg.BuildCatalog()
	if err != nil {
		return err
	}
	engine := session.NewEngine(catalog)

	roles, err := loadRoles(rolesPath)
	if err != nil {
		return err
	}

	var s session.State
	steps := []struct {
		path string
		load func(session.State, generic.Table) (session.State, error)
	}{
		{points, engine.LoadReferenceItems},
		{rewards, engine.LoadRewardRules},
		{sales, func(s session.State, t generic.Table) (session.State, error) {
			return engine.ImportSales(s, t, true)
		}},
	}
	for _, step := range steps {
		t, err := readTable(step.path)
		if err != nil {
			return err
		}
		if s, err = step.load(s, t); err != nil {
			return fmt.Errorf("%s: %w", step.path, err)
		}
	}

	for _, name := range engine.PendingNames(s) {
		if _, ok := roles[name]; !ok {
			log.Printf("WARN: %s has no role in %s, treated as SALES", name, rolesPath)
		}
	}
	if s, err = engine.ConfirmClassification(s, roles); err != nil {
		return err
	}

	wb := export.Build(s.Bundles, s.SelectedPersons())
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := export.Write(ctx, f, wb); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readTable(path string) (generic.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return generic.Table{}, err
	}
	defer f.Close()
	return tabular.Read(f, path)
}

func loadRoles(path string) (map[string]generic.Role, error) {
	roles := map[string]generic.Role{}
	if path == "" {
		return roles, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roles %s: %w", path, err)
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing roles: %w", err)
	}
	for name, r := range raw {
		role, err := generic.ParseRole(r)
		if err != nil {
			return nil, fmt.Errorf("role of %s: %w", name, err)
		}
		roles[name] = role
	}
	return roles, nil
}
