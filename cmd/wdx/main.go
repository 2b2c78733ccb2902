package main

import (
	"flag"
	"fmt"
	"os"

	"wdx/internal/catalog"
	"wdx/internal/config"
	"wdx/internal/pipeline"
	"wdx/internal/server"
	"wdx/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		args := os.Args[2:]
		if len(args) < 1 {
			must(fmt.Errorf("usage: run <input-file> [output-directory]"))
		}
		input := args[0]
		outDir := cfg.DataDir
		if len(args) > 1 {
			outDir = args[1]
		}
		if _, err := os.Stat(input); err != nil {
			must(fmt.Errorf("input file: %w", err))
		}

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		res, err := pipeline.Run(input, outDir, cfg, db)
		must(err)
		fmt.Printf("run complete trace=%s rows=%d skipped=%d files=%d countries=%d series=%d in %dms\n",
			res.TraceID, res.Rows, res.Skipped, res.Files, res.Countries, res.Series, res.DurationMs)
	case "stats":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		data := fs.String("data", cfg.DataDir, "normalized data directory")
		_ = fs.Parse(os.Args[2:])
		cat, err := catalog.Load(*data)
		must(err)
		s := cat.Stats()
		fmt.Printf("countries=%d series=%d entries=%d avgSeriesPerCountry=%.2f\n",
			s.Countries, s.Series, s.Entries, s.AvgSeriesPerCountry)
	case "lookup":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		data := fs.String("data", cfg.DataDir, "normalized data directory")
		country := fs.String("country", "", "country code")
		series := fs.String("series", "", "series code")
		_ = fs.Parse(os.Args[2:])
		if *country == "" && *series == "" {
			must(fmt.Errorf("--country or --series is required"))
		}
		cat, err := catalog.Load(*data)
		must(err)

		if *country != "" {
			c, ok := cat.Country(*country)
			if !ok {
				fmt.Printf("country %s: not found\n", *country)
				os.Exit(1)
			}
			fmt.Printf("%s %s\n", c.Code, c.Name)
			refs, err := cat.SeriesForCountry(c.Code)
			must(err)
			for _, ref := range refs {
				fmt.Printf("  %-24s %-50s %s\n", ref.Series.Code, ref.Series.Name, ref.FileName)
			}
		}
		if *series != "" {
			s, ok := cat.Series(*series)
			if !ok {
				fmt.Printf("series %s: not found\n", *series)
				os.Exit(1)
			}
			fmt.Printf("%s %s\n", s.Code, s.Name)
			refs, err := cat.CountriesForSeries(s.Code)
			must(err)
			for _, ref := range refs {
				fmt.Printf("  %-6s %-40s %s\n", ref.Country.Code, ref.Country.Name, ref.FileName)
			}
		}
	case "search":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		data := fs.String("data", cfg.DataDir, "normalized data directory")
		countries := fs.String("countries", "", "substring to match country names")
		series := fs.String("series", "", "substring to match series names")
		_ = fs.Parse(os.Args[2:])
		if *countries == "" && *series == "" {
			must(fmt.Errorf("--countries or --series is required"))
		}
		cat, err := catalog.Load(*data)
		must(err)

		if *countries != "" {
			for _, c := range cat.SearchCountries(*countries) {
				fmt.Printf("%-6s %s\n", c.Code, c.Name)
			}
		}
		if *series != "" {
			for _, s := range cat.SearchSeries(*series) {
				fmt.Printf("%-24s %s\n", s.Code, s.Name)
			}
		}
	case "runs":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs to list")
		_ = fs.Parse(os.Args[2:])
		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
		runs, err := db.ListRuns(*limit)
		must(err)
		for _, r := range runs {
			fmt.Printf("%s  trace=%s input=%s rows=%d files=%d countries=%d series=%d %dms\n",
				r.CreatedAt, r.TraceID, r.Input, r.Rows, r.Files, r.Countries, r.Series, r.DurationMs)
		}
	case "serve":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		data := fs.String("data", cfg.DataDir, "normalized data directory")
		port := fs.Int("port", cfg.ServePort, "listen port")
		_ = fs.Parse(os.Args[2:])
		cat, err := catalog.Load(*data)
		must(err)
		srv := server.New(cat, *data)
		must(srv.Start(*port))
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: wdx <command>")
	fmt.Println("commands:")
	fmt.Println("  run <input-file> [output-directory]")
	fmt.Println("  stats   [--data=DIR]")
	fmt.Println("  lookup  [--data=DIR] --country=ARG | --series=NY.GDP.PCAP.KD")
	fmt.Println("  search  [--data=DIR] --countries=argen | --series=gdp")
	fmt.Println("  runs    [--limit=20]")
	fmt.Println("  serve   [--data=DIR] [--port=8080]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
