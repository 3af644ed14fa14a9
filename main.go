package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron"
	"k8s.io/klog"

	"github.com/bcaldwell/priorbank/pkg/config"
	"github.com/bcaldwell/priorbank/pkg/priorbankimporter"
)

type Runner interface {
	Run() error
	Close() error
}

var runner Runner

func main() {
	klog.InitFlags(nil)

	singleRun := flag.Bool("single-run", false, "run importer once (disable cron)")
	configFile := flag.String("config", "./config.yml", "configuration file")
	secretsFile := flag.String("secrets", "./secrets.ejson", "secrets file")
	help := flag.Bool("help", false, "show command help")

	flag.Parse()
	defer klog.Flush()

	if *help {
		fmt.Println("priorbank snapshot importer")
		fmt.Println("priorbank [options] task")
		flag.PrintDefaults()
		return
	}

	err := config.ReadConfig(config.ConfigEnvVar, *configFile, *secretsFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if flag.NArg() == 0 {
		fmt.Println("No task passed in")
		return
	}

	switch flag.Arg(0) {
	case "priorbank":
		runner, err = priorbankimporter.NewImportPriorbankRunner()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	default:
		fmt.Printf("Unknown task %s\n", flag.Arg(0))
		return
	}
	defer runner.Close()

	run()

	if *singleRun {
		return
	}

	c := cron.New()
	err = c.AddFunc(config.CurrentConfig().UpdateFrequency, run)
	if err != nil {
		fmt.Printf("Invalid update frequency %q: %v\n", config.CurrentConfig().UpdateFrequency, err)
		return
	}

	c.Start()

	select {}
}

func run() {
	klog.Info(time.Now().Format(time.RFC850))
	err := runner.Run()
	if err != nil {
		klog.Error(err)
	}
}
