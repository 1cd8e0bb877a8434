// Package dispatch runs the listen → classify → act → speak loop.
//
// The loop owns the microphone and the speech sink. Cycles are strictly
// sequential: every reply is spoken to completion before the next cycle
// starts listening.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"voxassist/internal/assistant"
	"voxassist/internal/command"
	"voxassist/internal/speech"
)

// Sink speaks text and returns once playback has finished.
type Sink interface {
	Speak(text string) error
}

type Navigator interface {
	Navigate(url string) error
}

// Opener launches a catalog app and returns the target that started.
type Opener interface {
	Open(key string) (string, error)
}

// Cue is the short sound played before listening.
type Cue interface {
	Play() error
}

// Reporter receives every outcome after it was spoken.
type Reporter interface {
	Report(Outcome) error
}

type Config struct {
	WaitTimeout time.Duration
	PhraseLimit time.Duration
	Calibration time.Duration
}

func DefaultConfig() Config {
	return Config{
		WaitTimeout: 10 * time.Second,
		PhraseLimit: 15 * time.Second,
		Calibration: time.Second,
	}
}

// Deps are the collaborators of a Dispatcher. Cue and Reporter are optional.
type Deps struct {
	Microphone  speech.Microphone
	Transcriber speech.Transcriber
	Sink        Sink
	Classifier  *command.Classifier
	Apps        Opener
	Browser     Navigator
	Assistant   assistant.Asker
	Cue         Cue
	Reporter    Reporter
}

type Dispatcher struct {
	cfg Config
	Deps
}

func New(cfg Config, deps Deps) *Dispatcher {
	return &Dispatcher{cfg: cfg, Deps: deps}
}

// Run greets, cycles until ctx is cancelled or the microphone runs out of
// input, and says goodbye. Cancellation is observed between cycles only.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.say(Greeting)
	defer d.say(Farewell)

	for {
		if err := ctx.Err(); err != nil {
			log.Info("Stopping", "reason", context.Cause(ctx))
			return nil
		}

		out, err := d.Cycle(context.WithoutCancel(ctx))
		if errors.Is(err, speech.ErrExhausted) {
			log.Info("Input exhausted")
			return nil
		}
		if err != nil {
			return err
		}

		log.Debug("Cycle done", "kind", out.Kind, "utterance", out.Utterance)
	}
}

// Cycle listens once and acts on what was heard. Every failure becomes a
// spoken Outcome; the only error returned is speech.ErrExhausted.
func (d *Dispatcher) Cycle(ctx context.Context) (Outcome, error) {
	out, err := d.cycle(ctx)
	if err != nil {
		return Outcome{}, err
	}

	if d.Reporter != nil {
		if err := d.Reporter.Report(out); err != nil {
			log.Warn("Failed to report outcome", "kind", out.Kind, "err", err)
		}
	}
	return out, nil
}

func (d *Dispatcher) cycle(ctx context.Context) (Outcome, error) {
	pcm, out, err := d.listen()
	if err != nil || pcm == nil {
		return out, err
	}

	transcript, err := d.Transcriber.Transcribe(ctx, pcm)
	if err != nil {
		err = fmt.Errorf("%w: %w", speech.ErrRecognition, err)
		log.Warn("Transcription failed", "err", err)
		return d.finish(Outcome{Kind: RecognitionFailed, Reason: err.Error()}, speechError(err)), nil
	}

	utt := command.Normalize(transcript)
	log.Info("User said", "text", transcript)

	if utt.Empty() {
		return d.finish(Outcome{Kind: NoInput}, NoInputPrompt), nil
	}

	cmd := d.Classifier.Classify(utt)
	log.Debug("Classified", "utterance", utt, "action", cmd.Action)

	switch cmd.Action {
	case command.Navigate:
		return d.navigate(utt, cmd), nil
	case command.AppLaunch:
		return d.launch(utt, cmd), nil
	default:
		return d.delegate(ctx, utt), nil
	}
}

// listen returns the captured phrase, or a nil phrase together with the
// finished Outcome describing why there is none.
func (d *Dispatcher) listen() ([]float32, Outcome, error) {
	capture, err := d.Microphone.Open()
	if errors.Is(err, speech.ErrExhausted) {
		return nil, Outcome{}, err
	}
	if err != nil {
		return nil, d.micFailed(err), nil
	}
	defer func() {
		if err := capture.Close(); err != nil {
			log.Warn("Failed to close microphone", "err", err)
		}
	}()

	if d.Cue != nil {
		if err := d.Cue.Play(); err != nil {
			log.Warn("Failed to play cue", "err", err)
		}
	}
	d.say(ListeningPrompt)

	if err := capture.Calibrate(d.cfg.Calibration); err != nil {
		return nil, d.micFailed(err), nil
	}

	pcm, err := capture.Record(d.cfg.WaitTimeout, d.cfg.PhraseLimit)
	switch {
	case errors.Is(err, speech.ErrWaitTimeout):
		log.Info("No speech before timeout", "wait", d.cfg.WaitTimeout)
		return nil, d.finish(Outcome{Kind: RecognitionFailed, Reason: err.Error()}, TimeoutPrompt), nil
	case errors.Is(err, speech.ErrMicrophone):
		return nil, d.micFailed(err), nil
	case err != nil:
		log.Warn("Capture failed", "err", err)
		return nil, d.finish(Outcome{Kind: RecognitionFailed, Reason: err.Error()}, speechError(err)), nil
	}

	return pcm, Outcome{}, nil
}

func (d *Dispatcher) micFailed(err error) Outcome {
	if !errors.Is(err, speech.ErrMicrophone) {
		err = fmt.Errorf("%w: %w", speech.ErrMicrophone, err)
	}
	log.Error("Microphone failed", "err", err)
	return d.finish(Outcome{Kind: MicrophoneFailed, Reason: err.Error()}, microphoneError(err))
}

func (d *Dispatcher) navigate(utt command.Utterance, cmd command.Command) Outcome {
	out := Outcome{Kind: Navigated, Utterance: string(utt), URL: cmd.URL}

	d.say(opening(cmd.Site))
	if err := d.Browser.Navigate(cmd.URL); err != nil {
		log.Warn("Failed to open browser", "url", cmd.URL, "err", err)
		out.Reason = err.Error()
	}

	out.Reply = opening(cmd.Site)
	return out
}

func (d *Dispatcher) launch(utt command.Utterance, cmd command.Command) Outcome {
	out := Outcome{Kind: Launched, Utterance: string(utt), App: cmd.App}

	d.say(opening(cmd.App))

	target, err := d.Apps.Open(cmd.App)
	if err != nil {
		log.Warn("Failed to launch", "app", cmd.App, "err", err)
		out.Reason = err.Error()
		return d.finish(out, openFailed(cmd.App))
	}

	out.Target = target
	out.Success = true
	return d.finish(out, opened(cmd.App))
}

func (d *Dispatcher) delegate(ctx context.Context, utt command.Utterance) Outcome {
	d.say(ThinkingPrompt)

	answer := d.Assistant.Ask(ctx, string(utt))
	return d.finish(Outcome{Kind: Delegated, Utterance: string(utt), Answer: answer}, answer)
}

// finish speaks reply and records it on out.
func (d *Dispatcher) finish(out Outcome, reply string) Outcome {
	d.say(reply)
	out.Reply = reply
	return out
}

func (d *Dispatcher) say(text string) {
	if err := d.Sink.Speak(text); err != nil {
		log.Warn("Failed to speak", "text", text, "err", err)
	}
}

// Reporters fans an outcome out to several reporters.
type Reporters []Reporter

func (rs Reporters) Report(o Outcome) error {
	var errs []error
	for _, r := range rs {
		if err := r.Report(o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
