package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/adislis/handspeak/internal/config"
	"github.com/adislis/handspeak/internal/detector"
	"github.com/adislis/handspeak/internal/recognizer"
)

func main() {
	fmt.Println("Handspeak - Recognition Service")

	// A missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.LoadRecognizer()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	det, err := detector.NewMediaPipeDetector(detector.Config{
		MaxHands:         cfg.MaxHands,
		MinDetectionConf: cfg.MinDetectionConf,
		MinTrackingConf:  cfg.MinTrackingConf,
	}, cfg.WorkerScript)
	if err != nil {
		log.Fatalf("Failed to initialize hand detector: %v", err)
	}
	defer det.Close()

	// A broken or absent model degrades predictions to empty strings
	// rather than taking the frame channel down with it.
	var classifier recognizer.Classifier
	if c, err := recognizer.LoadCentroidClassifier(cfg.ModelPath); err != nil {
		log.Printf("WARNING: classifier unavailable, predictions disabled: %v", err)
	} else {
		classifier = c
		fmt.Printf("Loaded classifier with %d classes from %s\n", len(c.Classes()), cfg.ModelPath)
	}

	registry := prometheus.NewRegistry()
	pipeline := recognizer.NewPipeline(det, classifier, recognizer.NewMetrics(registry))

	srv := recognizer.NewServer(recognizer.ServerConfig{
		Pipeline: pipeline,
		Registry: registry,
	})

	fmt.Printf("Starting recognition service on %s\n", cfg.Addr)
	if err := srv.ListenAndServe(cfg.Addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
