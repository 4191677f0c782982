package api

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type moveTaskRequest struct {
	SourceColumnID string `json:"sourceColumnId"`
	DestColumnID   string `json:"destColumnId"`
	SourceIndex    int    `json:"sourceIndex"`
	DestIndex      int    `json:"destIndex"`
}

type moveTaskResponse struct {
	Success bool `json:"success"`
}
