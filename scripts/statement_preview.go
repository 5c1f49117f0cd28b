package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyunwoo/ledgerops/pkg/banksalad"
	"github.com/hyunwoo/ledgerops/pkg/config"
)

// Parses a statement export and prints the summary as JSON, without touching
// the database. Handy for checking what an import run would produce.
func main() {
	configFile := flag.String("config", "./config.yml", "configuration file")
	secretsFile := flag.String("secrets", "./secrets.ejson", "secrets file")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("usage: statement_preview [options] statement-file")
		os.Exit(1)
	}

	err := config.ReadConfig("LEDGEROPS_CONFIG", *configFile, *secretsFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	path := flag.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	importConfig := config.CurrentImportConfig()
	opts := banksalad.Options{
		UserID:                  importConfig.UserID,
		DefaultCurrency:         importConfig.DefaultCurrency,
		KnownAccounts:           importConfig.KnownAccounts,
		PrimaryAccount:          importConfig.PrimaryAccount,
		SingleAccountMode:       importConfig.SingleAccountMode,
		NeutralTransferPatterns: importConfig.NeutralTransferPatterns,
	}

	var summary *banksalad.ParseSummary
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		summary, err = banksalad.ParseCSV(bytes.NewReader(data), opts)
	} else {
		summary, err = banksalad.ParseWorkbook(data, opts)
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	b, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	fmt.Println(string(b))
}
