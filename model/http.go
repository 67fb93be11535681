package model

type ScrollRequestBody struct {
	Region string  `json:"region"`
	Offset float64 `json:"offset"`
}

type ResizeRequestBody struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type ActivateRequestBody struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type NoteResponse struct {
	ID       string  `json:"id"`
	Position int     `json:"position"`
	Duration int     `json:"duration"`
	Tone     int     `json:"tone"`
	Lyric    string  `json:"lyric"`
	Pitch    int     `json:"pitch_points"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

type ProjectResponse struct {
	Name       string         `json:"name"`
	Resolution int            `json:"resolution"`
	BPM        float64        `json:"bpm"`
	BeatPerBar int            `json:"beat_per_bar"`
	BeatUnit   int            `json:"beat_unit"`
	Parts      int            `json:"parts"`
	Notes      []NoteResponse `json:"notes"`
}

type ViewportResponse struct {
	KeysOffset float64 `json:"keys_offset"`
	GridOffset float64 `json:"grid_offset"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
