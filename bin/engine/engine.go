package main

import (
	"context"
	"flag"
	"strings"

	"github.com/litmuschaos/chaos-engine/pkg/config"
	"github.com/litmuschaos/chaos-engine/pkg/engine"
	"github.com/litmuschaos/chaos-engine/pkg/injector"
	"github.com/litmuschaos/chaos-engine/pkg/log"
	"github.com/litmuschaos/chaos-engine/pkg/observability"
	"github.com/litmuschaos/chaos-engine/pkg/telemetry"
	"github.com/litmuschaos/chaos-engine/pkg/types"
	"github.com/sirupsen/logrus"
)

func init() {
	// Log as JSON instead of the default ASCII formatter.
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		DisableSorting:         true,
		DisableLevelTruncation: true,
	})
}

func main() {

	presetName := flag.String("preset", engine.PresetBasicLatency, "name of the chaos experiment preset")
	configPath := flag.String("config", "", "path of a yaml chaos configuration, overrides the built-in demo configuration")
	services := flag.String("services", "svc-a,svc-b", "comma separated service names to register injectors for")
	duration := flag.Int("duration", 0, "override of the preset experiment duration in seconds")
	otlpEndpoint := flag.String("otlp-endpoint", "", "OTLP collector endpoint for experiment tracing")
	flag.Parse()

	ctx := context.Background()

	if *otlpEndpoint != "" {
		shutdown, err := telemetry.InitOTelSDK(ctx, *otlpEndpoint)
		if err != nil {
			log.Fatalf("Unable to initialize tracing, err: %v", err)
		}
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Errorf("Unable to shutdown tracing, err: %v", err)
			}
		}()
	}

	collector := observability.NewStaticCollector()
	manager := engine.NewManager(collector)

	if *configPath != "" {
		configuration, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Unable to load configuration, err: %v", err)
		}
		manager.Configure(configuration)
	} else {
		configuration := types.NewDefaultConfiguration()
		configuration.Enabled = true
		configuration.Intensity = types.HighIntensity
		manager.Configure(configuration)
	}

	manager.Initialize()
	defer manager.Shutdown()

	for _, service := range strings.Split(*services, ",") {
		manager.RegisterInjector(injector.NewDefaultInjector(strings.TrimSpace(service)))
	}

	experiment := manager.GenerateExperimentPreset(*presetName)
	if *duration > 0 {
		experiment.Duration = *duration
	}

	log.Infof("Experiment Name: %v", experiment.Name)

	result := manager.RunExperiment(ctx, experiment)

	log.InfoWithValues("[Result]: Experiment finished", logrus.Fields{
		"experimentID":   result.ExperimentID,
		"status":         result.Status,
		"durationActual": result.Results.DurationActual,
		"stabilityScore": result.Results.StabilityScore,
		"emergencyStop":  result.EmergencyStopTriggered(),
	})
}
