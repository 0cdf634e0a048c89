package main

import (
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nkeidar/CivicBudget/agents"
	common "github.com/nkeidar/CivicBudget/common"
	"github.com/nkeidar/CivicBudget/config"
	"github.com/nkeidar/CivicBudget/recorder"
	budgetServer "github.com/nkeidar/CivicBudget/server"
)

func main() {
	configPath := flag.String("config", "experiments.yaml", "path to the experiments file")
	flag.Parse()

	if err := config.Ensure(*configPath); err != nil {
		log.Fatalf("Failed to write sample config: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Create logs directory if it doesn't exist
	if err := os.MkdirAll(cfg.LogsDir, 0755); err != nil {
		log.Fatalf("Failed to create logs directory: %v", err)
	}

	// Create log file with timestamp in name
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFile, err := os.OpenFile(filepath.Join(cfg.LogsDir, "log_"+timestamp+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()

	// Create a MultiWriter to write to both the log file and stdout
	multiWriter := io.MultiWriter(os.Stdout, logFile)

	// Set log output to multiWriter
	log.SetOutput(multiWriter)

	// Remove date and time prefix from log entries
	log.SetFlags(0)

	log.Println("main function started.")

	for index, experiment := range cfg.Experiments {
		if err := runExperiment(index, experiment, cfg.OutputDir); err != nil {
			log.Fatalf("Experiment %v (%v) failed: %v", index, experiment.Name, err)
		}
	}
}

func runExperiment(index int, experiment config.Experiment, outputDir string) error {
	log.Printf("\n========== Experiment %v: %v ==========", index, experiment.Name)

	rule, err := experiment.Mechanism()
	if err != nil {
		return err
	}
	electionRule, err := budgetServer.ParseElectionRule(experiment.ElectionRule)
	if err != nil {
		return err
	}

	serv := budgetServer.MakeBudgetServer(
		experiment.Iterations,     //  iterations
		experiment.Turns,          //  turns per iteration
		100*time.Millisecond,      //  max duration
		10,                        //  message bandwidth
		budgetServer.ServerConfig{ //  the campaign on the ballot
			Wards:        experiment.Wards,
			Campaign:     common.Campaign{Subjects: experiment.Subjects, Total: experiment.TotalBudget},
			Rule:         rule,
			ElectionRule: electionRule,
			FacilityCost: experiment.FacilityCost,
		})

	agentConfig := agents.AgentConfig{
		VerboseLevel: experiment.VerboseLevel,
	}

	population := makePopulation(serv, experiment.Citizens, agentConfig)
	for i, citizen := range population {
		citizen.SetName(i)
		serv.AddAgent(citizen)
	}

	// serv.ReportMessagingDiagnostics()
	serv.Start()

	// custom functions to see citizen and district results
	serv.LogCitizenStatus()
	serv.LogDistrictStatus()

	// record data
	experimentDir := filepath.Join(outputDir, "experiment_"+strconv.Itoa(index))
	if err := recorder.ExportToCSV(serv.DataRecorder, filepath.Join(experimentDir, "csv_data")); err != nil {
		return err
	}
	return recorder.CreatePlaybackHTML(serv.DataRecorder, experimentDir)
}

func makePopulation(serv *budgetServer.BudgetServer, counts config.PersonaCounts, agentConfig agents.AgentConfig) []common.ICitizen {
	population := []common.ICitizen{}
	for i := 0; i < counts.SingleIssue; i++ {
		population = append(population, agents.SingleIssue_CreateCitizen(serv, agentConfig))
	}
	for i := 0; i < counts.EvenSplit; i++ {
		population = append(population, agents.EvenSplit_CreateCitizen(serv, agentConfig))
	}
	for i := 0; i < counts.Noisy; i++ {
		population = append(population, agents.Noisy_CreateCitizen(serv, agentConfig))
	}
	for i := 0; i < counts.Adaptive; i++ {
		population = append(population, agents.Adaptive_CreateCitizen(serv, agentConfig))
	}
	return population
}
