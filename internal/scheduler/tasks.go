package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskCrossReference = "deals.cross_reference"

const TaskSourceRefresh = "deals.source_refresh"

type CrossReferencePayload struct {
	RequestedBy string `json:"requestedBy"`
}

type SourceRefreshPayload struct {
	Source string `json:"source"`
}

func NewCrossReferenceTask(payload CrossReferencePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCrossReference, data), nil
}

func ParseCrossReferencePayload(task *asynq.Task) (CrossReferencePayload, error) {
	var payload CrossReferencePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CrossReferencePayload{}, err
	}
	return payload, nil
}

func NewSourceRefreshTask(payload SourceRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSourceRefresh, data), nil
}

func ParseSourceRefreshPayload(task *asynq.Task) (SourceRefreshPayload, error) {
	var payload SourceRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return SourceRefreshPayload{}, err
	}
	return payload, nil
}
