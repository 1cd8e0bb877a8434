// voxassist listens for spoken commands, opens websites and applications,
// and answers everything else with a remote AI model.
//
// Usage:
//
//	voxassist [flags]
//	voxassist --config /etc/voxassist/voxassist.yaml
//	voxassist --replay cmd1.wav,cmd2.ogg
package main

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	cli "github.com/spf13/pflag"

	"voxassist/internal/assistant"
	"voxassist/internal/audio"
	"voxassist/internal/bus"
	"voxassist/internal/command"
	"voxassist/internal/config"
	"voxassist/internal/dispatch"
	"voxassist/internal/health"
	"voxassist/internal/ipc"
	"voxassist/internal/launcher"
	"voxassist/internal/metrics"
	"voxassist/internal/notify"
	"voxassist/internal/proxy"
	"voxassist/internal/replay"
	"voxassist/internal/speech"
	"voxassist/internal/tts"
	"voxassist/pkg/stt"
)

// version is set at build time via ldflags.
var version = "dev"

var errStopRequested = errors.New("stop requested over control socket")

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	configFile := cli.StringP("config", "c", "", "Config file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	replayFiles := cli.StringSliceP("replay", "r", nil, "Audio files to use instead of the microphone")
	showVersion := cli.Bool("version", false, "Print version and exit")
	cli.Parse()

	if *showVersion {
		fmt.Printf("voxassist %s\n", version)
		return
	}

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: config.ParseLevel(*logLevel),
	})))

	log.Info("Booting up", "version", version)

	if err := godotenv.Load(*envFile); err != nil {
		log.Debug("No env file loaded", "path", *envFile, "err", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}
	if cli.Lookup("log").Changed {
		cfg.Logging.Level = *logLevel
	}
	log.SetDefault(config.NewLogger(config.Output(cfg.Logging, os.Stdout), cfg.Logging))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, stop := context.WithCancelCause(ctx)
	defer stop(nil)

	catalog, err := launcher.NewCatalog(cfg.Apps)
	if err != nil {
		log.Error("Invalid app catalog", "err", err)
		os.Exit(1)
	}
	log.Debug("Loaded app catalog", "apps", catalog.Keys())

	ai, err := newAssistant(cfg.AI)
	if err != nil {
		log.Error("Failed to set up AI backend", "backend", cfg.AI.Backend, "err", err)
		os.Exit(1)
	}

	mic, closeMic, err := newMicrophone(*replayFiles)
	if err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer closeMic()

	whisper, err := stt.NewTranscriber(cfg.Whisper.Model, stt.Options{
		Language:      cfg.Listen.Language,
		Threads:       cfg.Whisper.Threads,
		InitialPrompt: cfg.Whisper.Prompt,
		TranslateToEn: cfg.Whisper.Translate,
	})
	if err != nil {
		log.Error("Failed to init whisper", "model", cfg.Whisper.Model, "err", err)
		os.Exit(1)
	}
	defer whisper.Close()

	var reporters dispatch.Reporters
	if cfg.Metrics.Addr != "" {
		m := metrics.New()
		ai = m.Timed(ai)
		reporters = append(reporters, m)
		go func() {
			if err := m.ListenAndServe(ctx, cfg.Metrics.Addr); err != nil {
				log.Error("Metrics server failed", "err", err)
			}
		}()
	}

	deps := dispatch.Deps{
		Microphone:  mic,
		Transcriber: whisper,
		Sink:        tts.NewSpeaker(cfg.TTS.Voice, cfg.TTS.Rate),
		Classifier:  command.NewClassifier(catalog),
		Apps:        launcher.NewResolver(catalog, launcher.NewSystem()),
		Browser:     launcher.NewBrowser(),
		Assistant:   ai,
	}
	if cfg.Cue.File != "" {
		deps.Cue = notify.NewCue(cfg.Cue.File)
	}
	if cfg.Bus.URL != "" {
		b, err := bus.NewBus(cfg.Bus.URL)
		if err != nil {
			log.Warn("Bus unavailable, outcomes will not be published", "err", err)
		} else {
			defer b.Close()
			reporters = append(reporters, b)
		}
	}
	if len(reporters) > 0 {
		deps.Reporter = reporters
	}

	socket := cfg.Control.Socket
	if socket == "" {
		socket = ipc.DefaultSocketPath()
	}
	ctl, err := ipc.Listen(socket, func(msg ipc.ControlMessage) ipc.ControlReply {
		switch msg.Cmd {
		case ipc.CmdStop:
			stop(errStopRequested)
			return ipc.ControlReply{OK: true, State: "stopping"}
		case ipc.CmdStatus:
			if ctx.Err() != nil {
				return ipc.ControlReply{OK: true, State: "stopping"}
			}
			return ipc.ControlReply{OK: true, State: "running"}
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
			return ipc.ControlReply{Error: fmt.Sprintf("%v %q", ipc.ErrUnknownCommand, msg.Cmd)}
		}
	})
	if err != nil {
		log.Warn("Control socket unavailable", "path", socket, "err", err)
	} else {
		defer ctl.Close()
	}

	go func() {
		if err := health.New(cfg.Health.Addr).ListenAndServe(ctx); err != nil {
			log.Error("Health server failed", "err", err)
		}
	}()

	log.Info("Boot up - successful", "mode", cfg.Mode, "backend", cfg.AI.Backend, "apps", catalog.Len())

	d := dispatch.New(dispatch.Config{
		WaitTimeout: cfg.Listen.WaitTimeout,
		PhraseLimit: cfg.Listen.PhraseLimit,
		Calibration: cfg.Listen.Calibration,
	}, deps)

	if err := d.Run(ctx); err != nil {
		log.Error("Dispatch loop failed", "err", err)
		os.Exit(1)
	}
}

func newAssistant(cfg config.AIConfig) (assistant.Asker, error) {
	client, err := proxy.NewHTTPClient(cfg.Proxy, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case config.BackendOpenAI:
		return assistant.NewOpenAI(assistant.OpenAIConfig{
			APIKey:     cfg.OpenAI.APIKey,
			Model:      cfg.OpenAI.Model,
			BaseURL:    cfg.OpenAI.BaseURL,
			Timeout:    cfg.Timeout,
			HTTPClient: client,
		}), nil
	default:
		return assistant.NewGemini(assistant.GeminiConfig{
			Endpoint:   cfg.Gemini.Endpoint,
			Model:      cfg.Gemini.Model,
			APIKey:     cfg.Gemini.APIKey,
			Timeout:    cfg.Timeout,
			HTTPClient: client,
		}), nil
	}
}

func newMicrophone(files []string) (speech.Microphone, func(), error) {
	if len(files) > 0 {
		log.Info("Replaying audio files", "count", len(files))
		return replay.New(files), func() {}, nil
	}

	rec := audio.NewRecorder()
	if err := rec.Init(); err != nil {
		return nil, nil, err
	}
	return rec, rec.Close, nil
}
