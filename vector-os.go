package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/d0rc/vector-os/cmds"
	"github.com/d0rc/vector-os/metrics"
	query_engine "github.com/d0rc/vector-os/query-engine"
	"github.com/d0rc/vector-os/settings"
	"github.com/d0rc/vector-os/utils"
	"github.com/d0rc/vector-os/vectors"
	"github.com/logrusorgru/aurora"
	"github.com/rs/zerolog"
)

// the aim of the project is to keep named collections of embedding
// vectors in memory and answer top-k similarity queries over them,
// routed through a prioritized compute scheduler

var configPath = flag.String("config", "config.yaml", "configuration file")
var topInterval = flag.Int("top-interval", 1000, "interval to update `top` (ms)")
var termUi = flag.Bool("term-ui", false, "enable term ui")
var keepRunning = flag.Bool("keep-running", false, "stay alive after the configured queries ran")

func main() {
	lg, logChan := utils.ConsoleInit("vector-os", termUi)

	config, err := settings.ProcessConfigurationFile(*configPath)
	if err != nil {
		lg.Fatal().Err(err).Msg("error loading configuration")
	}

	topIntervalMs := *topInterval
	if config.Engine.TopIntervalMs > 0 {
		topIntervalMs = config.Engine.TopIntervalMs
	}

	engineSettings := &query_engine.QueryEngineSettings{
		TermUI:  *termUi,
		LogChan: logChan,
	}
	if *keepRunning {
		// the rolling top clears the screen, only run it when we stay alive
		engineSettings.TopInterval = time.Duration(topIntervalMs) * time.Millisecond
	}

	db := vectors.NewDatabase()
	engine := query_engine.NewQueryEngine(lg, db, engineSettings)
	go engine.Run()

	if len(config.Engine.Workers) == 0 {
		engine.AddNode(&query_engine.WorkerNode{
			Name:         "scorer-0",
			MaxRequests:  2,
			MaxBatchSize: 32,
		})
	}
	for _, worker := range config.Engine.Workers {
		engine.AddNode(&query_engine.WorkerNode{
			Name:         worker.Name,
			MaxRequests:  worker.MaxRequests,
			MaxBatchSize: worker.MaxBatchSize,
		})
	}

	// collections declared inline in the config come up empty
	createRequests := make([]cmds.CreateCollectionRequest, 0, len(config.Collections))
	for _, collection := range config.Collections {
		createRequests = append(createRequests, cmds.CreateCollectionRequest{
			Name:       collection.Name,
			Dimensions: collection.Dimensions,
			Distance:   collection.Distance,
		})
	}
	if len(createRequests) > 0 {
		if _, err = cmds.ProcessCreateCollections(createRequests, engine); err != nil {
			lg.Fatal().Err(err).Msg("error creating collections")
		}
	}

	// document sets are full collections loaded from YAML files
	for _, setPath := range config.DocumentSets {
		if _, err = cmds.LoadDocumentSet(setPath, engine, "main[loader]", query_engine.PRIO_Kernel); err != nil {
			lg.Fatal().Err(err).Msgf("error loading document set %s", setPath)
		}
	}
	lg.Info().Msgf("%d documents across %d collections are in", db.Len(), len(db.Collections()))

	runConfiguredQueries(config, engine, lg)

	snapshot := metrics.Snapshot()
	event := lg.Info()
	for _, name := range metrics.Names() {
		event = event.Int64(name, snapshot[name])
	}
	event.Msg("session counters")

	if *termUi || *keepRunning {
		// the dashboard owns the terminal now, queries keep being
		// accepted until q / Ctrl-C
		select {}
	}
}

func runConfiguredQueries(config *settings.ConfigurationFile, engine *query_engine.QueryEngine, lg zerolog.Logger) {
	for _, query := range config.Queries {
		response, err := cmds.ProcessSearchRequests([]cmds.SearchRequest{{
			Collection: query.Collection,
			Vector:     query.Vector,
			TopK:       query.TopK,
		}}, engine, "main[queries]", query_engine.JobPriority(query.Priority))
		if err != nil {
			lg.Error().Err(err).Msgf("error searching in %s", query.Collection)
			continue
		}

		searchResponse := response.SearchResponse[0]
		if *termUi {
			lg.Info().Msgf("search in %s returned %d results", query.Collection, len(searchResponse.Results))
			continue
		}
		printSearchResponse(query.Collection, query.TopK, searchResponse)
	}
}

func printSearchResponse(collection string, topK int, response *cmds.SearchResponse) {
	fmt.Printf("%s %s (top-%d):\n",
		aurora.BrightGreen("results for"),
		aurora.BrightCyan(collection),
		topK)
	if response.Error != "" {
		fmt.Printf("  %s %s\n", aurora.Red("error:"), response.Error)
		return
	}
	for idx, result := range response.Results {
		fmt.Printf("  %2d. %s %s\n",
			idx+1,
			aurora.BrightWhite(result.Id),
			aurora.BrightCyan(fmt.Sprintf("%.4f", result.Score)))
	}
}
