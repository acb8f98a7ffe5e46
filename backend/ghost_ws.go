package main

import "net/http"

type ghostCell struct {
	Row    int `json:"row"`
	Col    int `json:"col"`
	Player int `json:"player"`
}

// ghostPayload carries the move suggestion shown to a human player.
type ghostPayload struct {
	Mode       string     `json:"mode,omitempty"`
	Best       *ghostCell `json:"best,omitempty"`
	Depth      int        `json:"depth,omitempty"`
	NextPlayer int        `json:"next_player,omitempty"`
	HistoryLen int        `json:"history_len,omitempty"`
	Active     bool       `json:"active"`
}

func serveGhostWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	serveHub(hub, w, r, nil, nil)
}
