package handler

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"kidassess/internal/narration"
)

// AudioHandler serves synthesized narration clips
type AudioHandler struct {
	tts *narration.TTSClient
}

func NewAudioHandler(tts *narration.TTSClient) *AudioHandler {
	return &AudioHandler{tts: tts}
}

// Clip handles GET /v1/audio/{clipKey}
func (h *AudioHandler) Clip(w http.ResponseWriter, r *http.Request) {
	data, err := h.tts.Clip(mux.Vars(r)["clipKey"])
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "clip not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
