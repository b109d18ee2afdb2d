package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Ashenafi-pixel/lootsim/catalog"
	"github.com/Ashenafi-pixel/lootsim/config"
	"github.com/Ashenafi-pixel/lootsim/enchant"
	"github.com/Ashenafi-pixel/lootsim/logger"
	"github.com/Ashenafi-pixel/lootsim/loot"
	"github.com/Ashenafi-pixel/lootsim/lootfile"
	"github.com/Ashenafi-pixel/lootsim/report"
	"github.com/Ashenafi-pixel/lootsim/requirement"
	"github.com/Ashenafi-pixel/lootsim/simulate"
)

type options struct {
	table        string
	chests       int
	seed         int64
	spec         string
	enchantments string
	asJSON       bool
	quiet        bool
	args         []string
}

func main() {
	_ = godotenv.Load(".env")
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.Setup(cfg)

	var opts options
	flag.StringVar(&opts.table, "table", cfg.DefaultTable, "Loot table id in the tables directory, or a path to a JSON file")
	flag.IntVar(&opts.chests, "chests", cfg.Trials, "Number of chests to simulate")
	flag.Int64Var(&opts.seed, "seed", 0, "Random seed (0 draws one)")
	flag.StringVar(&opts.spec, "spec", "", "YAML requirement file")
	flag.StringVar(&opts.enchantments, "enchantments", cfg.EnchantmentsFile, "Enchantment metadata file (default: vanilla set)")
	flag.BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")
	flag.BoolVar(&opts.quiet, "quiet", false, "Hide the progress bar")
	flag.Usage = usage
	flag.Parse()
	opts.args = flag.Args()

	if err := run(cfg, opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "lootsim: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `usage: lootsim [flags] [requirement | item[:count] | item@enchantment[:level] ...]

Requirements: %s

`, strings.Join(requirement.NewRegistry(loot.CryptoRand{}).Names(), ", "))
	flag.PrintDefaults()
}

func run(cfg *config.Config, opts options, stdout, stderr io.Writer) error {
	book := enchant.Default()
	if opts.enchantments != "" {
		var err error
		if book, err = enchant.Load(opts.enchantments); err != nil {
			return err
		}
	}

	def, tableID, err := loadTable(cfg, opts.table)
	if err != nil {
		return err
	}
	table, err := def.Build(book.Choose)
	if err != nil {
		return fmt.Errorf("table %s: %w", tableID, err)
	}

	seed := opts.seed
	if seed == 0 {
		if seed, err = loot.NewSeed(); err != nil {
			return err
		}
	}
	rng := loot.NewRand(seed)

	reg := requirement.NewRegistry(rng)
	spec := &requirement.Spec{}
	if opts.spec != "" {
		if spec, err = requirement.LoadSpec(opts.spec); err != nil {
			return err
		}
	}
	fromArgs, err := reg.ParseArgs(opts.args)
	if err != nil {
		return err
	}
	spec.Requirements = append(spec.Requirements, fromArgs.Requirements...)
	spec.Items = append(spec.Items, fromArgs.Items...)
	preds, err := reg.Build(spec)
	if err != nil {
		return err
	}

	simOpts := []simulate.Option{}
	var bar *report.Progress
	if !opts.quiet && !opts.asJSON {
		bar = report.NewProgress(stderr)
		simOpts = append(simOpts, simulate.WithProgress(opts.chests/100+1, func(done, total int) {
			bar.Update(done, total)
			if done == total {
				bar.Done()
			}
		}))
	}
	res, err := simulate.New(table, rng, simOpts...).Run(opts.chests, requirement.NewEvaluator(preds...))
	if bar != nil {
		bar.Done()
	}
	if err != nil {
		return err
	}
	res.Table = tableID
	res.Seed = seed

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return report.Render(stdout, res)
}

// loadTable reads a table by path when ref looks like a file, otherwise by id
// from the configured tables directory.
func loadTable(cfg *config.Config, ref string) (*lootfile.Definition, string, error) {
	if strings.HasSuffix(ref, ".json") || strings.ContainsRune(ref, os.PathSeparator) {
		def, err := lootfile.ReadFile(ref)
		if err != nil {
			return nil, "", err
		}
		return def, strings.TrimSuffix(ref[strings.LastIndexAny(ref, `/\`)+1:], ".json"), nil
	}
	def, err := catalog.NewStore(cfg.TablesDir).Get(ref)
	if err != nil {
		return nil, "", err
	}
	return def, ref, nil
}
