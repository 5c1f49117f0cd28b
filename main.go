package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron"

	"github.com/hyunwoo/ledgerops/internal/statementimporter"
	"github.com/hyunwoo/ledgerops/pkg/config"
)

type Runner interface {
	Run() error
	Close() error
}

var runner Runner

func main() {
	singleRun := flag.Bool("single-run", false, "run importer once (disable cron)")
	configFile := flag.String("config", "./config.yml", "configuration file")
	secretsFile := flag.String("secrets", "./secrets.ejson", "secrets file")
	statementFile := flag.String("file", "", "statement file to import (defaults to the configured watch directory)")
	help := flag.Bool("help", false, "show command help")

	flag.Parse()

	if *help {
		fmt.Println("banksalad statement importer")
		fmt.Println("ledgerops [options] task")
		flag.PrintDefaults()
		return
	}

	err := config.ReadConfig("LEDGEROPS_CONFIG", *configFile, *secretsFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if flag.NArg() == 0 {
		fmt.Println("No task passed in")
		return
	}

	switch flag.Arg(0) {
	case "import":
		runner, err = statementimporter.NewImportStatementRunner(*statementFile)
	default:
		fmt.Println("Unknown task:", flag.Arg(0))
		return
	}

	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	defer runner.Close()

	run()

	if *singleRun {
		return
	}

	c := cron.New()
	c.AddFunc(config.CurrentImportConfig().UpdateFrequency, run)

	c.Start()

	select {}

}

func run() {
	fmt.Println(time.Now().Format(time.RFC850))
	err := runner.Run()
	if err != nil {
		fmt.Println(err)
	}
}
