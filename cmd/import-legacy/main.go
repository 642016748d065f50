package main

import (
	"context"
	"flag"
	"log"

	"github.com/ummah-scheduler/scheduler/src/api/config"
	"github.com/ummah-scheduler/scheduler/src/api/data"
	"github.com/ummah-scheduler/scheduler/src/workflow"
)

var fileFlag = flag.String("file", "data/submissions.json", "Legacy submissions.json to import")

func main() {
	log.SetFlags(0)
	flag.Parse()
	cfg := config.Load()

	db := data.MustOpen(cfg.DBDriver, cfg.DBDSN)
	if _, err := data.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	rows, err := workflow.ReadLegacy(*fileFlag)
	if err != nil {
		log.Fatalf("read legacy file: %v", err)
	}
	log.Printf("found %d submissions in %s", len(rows), *fileFlag)

	n, err := workflow.NewStore(db).ImportLegacy(context.Background(), rows)
	if err != nil {
		log.Fatalf("import: %v", err)
	}
	log.Printf("imported %d submissions into %s", n, cfg.DBDSN)
}

