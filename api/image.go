package api

type UploadRequest struct {
	ImageURL string `json:"imageUrl"`
}

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
	URL     string `json:"url"`
}

type ImageResponse struct {
	Success bool   `json:"success"`
	Image   string `json:"image"`
}

type ListResponse struct {
	Success bool     `json:"success"`
	Images  []string `json:"images"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
