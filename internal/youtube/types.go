package youtube

// VideoMetadata is the slice of a video's metadata the player needs
type VideoMetadata struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

// API response shapes, limited to the fields we read

type videoListResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID             string         `json:"id"`
	Snippet        snippet        `json:"snippet"`
	ContentDetails contentDetails `json:"contentDetails"`
}

type snippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type contentDetails struct {
	Duration string `json:"duration"`
}

type searchListResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID searchItemID `json:"id"`
}

type searchItemID struct {
	VideoID string `json:"videoId"`
}
