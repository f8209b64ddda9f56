package main

import (
	"flag"

	"github.com/sendero-labs/sendero/pkg/logger"
	"github.com/sendero-labs/sendero/pkg/osmparser"
)

var (
	mapFile   = flag.String("map", "./data/benito_juarez.osm.pbf", "openstreetmap pbf extract to import")
	graphFile = flag.String("out", "./data/benito_juarez.graph", "output graph file")
)

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}

	parser := osmparser.NewWalkParser()
	graph, err := parser.Parse(*mapFile, log)
	if err != nil {
		panic(err)
	}

	if err := graph.WriteGraph(*graphFile); err != nil {
		panic(err)
	}

	log.Sugar().Infof("pedestrian graph written to %s", *graphFile)
}
