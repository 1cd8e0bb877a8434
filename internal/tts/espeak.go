package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <espeak-ng/speak_lib.h>

int
espeak_say(const char *text, const char *voice, int rate)
{
	if (!text || !voice)
	{ return -1; }

	if (espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0) < 0)
	{ return -2; }

	espeak_VOICE specs = { .languages = voice };
	espeak_SetVoiceByProperties(&specs);
	if (rate > 0)
	{ espeak_SetParameter(espeakRATE, rate, 0); }

	espeak_Synth(text, 500, 0, 0, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return 0;
}
*/
import "C"

import (
	"fmt"
	log "log/slog"
	"unsafe"
)

// Speaker renders text through espeak-ng. Speak returns once playback ended.
type Speaker struct {
	voice string
	rate  int
}

func NewSpeaker(voice string, rate int) *Speaker {
	if voice == "" {
		voice = "en"
	}
	return &Speaker{voice: voice, rate: rate}
}

func (s *Speaker) Speak(text string) error {
	if text == "" {
		return nil
	}

	log.Info("assistant", "say", text)

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	cvoice := C.CString(s.voice)
	defer C.free(unsafe.Pointer(cvoice))

	rc := C.espeak_say(ctext, cvoice, C.int(s.rate))
	if rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}

	return nil
}
