package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/multivend/marketd/config"
	"github.com/multivend/marketd/internal/adminapi"
	"github.com/multivend/marketd/internal/app"
	"github.com/multivend/marketd/internal/deliveryapi"
	"github.com/multivend/marketd/internal/sellerapi"
	"github.com/multivend/marketd/internal/storeapi"
	"github.com/multivend/marketd/internal/webserver"
)

var (
	BuildVersion string

	cfile   = flag.String("c", "/etc/marketd.yml", "config file")
	initdb  = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer = flag.Bool("v", false, "show version")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("marketd", BuildVersion)
		os.Exit(0)
	}

	cfg := config.LoadConfig(*cfile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application.StartBackgroundJobs(ctx)

	ws := webserver.Init(application)
	adminapi.Init()
	sellerapi.Init()
	deliveryapi.Init()
	storeapi.Init()

	go func() {
		if err := ws.Start(); err != nil {
			zap.S().Fatalf("web server stopped: %v", err)
		}
	}()

	application.WaitForSignal()
	zap.S().Info("shutting down")
}
