package aisvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"

	"github.com/integralforce/backend/core"
)

type (
	// canisterService talks to the AI canister through its HTTP gateway. Calls
	// are not retried: a failed call surfaces as an error and the caller
	// decides what a miss costs.
	canisterService struct {
		client     *http.Client
		baseURL    string
		canisterID string
	}

	canisterRequest struct {
		CanisterID string `json:"canisterId"`
		Prompt     string `json:"prompt"`
	}

	canisterResponse struct {
		Response string `json:"response"`
		Error    string `json:"error,omitempty"`
	}
)

var _ core.AIService = (*canisterService)(nil)

func NewCanisterService(conf *core.Config) core.AIService {
	return &canisterService{
		client:     &http.Client{Timeout: conf.AI.Timeout},
		baseURL:    conf.AI.BaseURL,
		canisterID: conf.AI.CanisterID,
	}
}

func (svc *canisterService) Chat(ctx context.Context, prompt string) (string, error) {
	return svc.call(ctx, prompt)
}

func (svc *canisterService) GenerateQuestion(ctx context.Context, topic string) (string, error) {
	prompt := fmt.Sprintf(
		"Generate one short quiz question about %s. Return only the question text.", topic)
	return svc.call(ctx, prompt)
}

func (svc *canisterService) EvaluateAnswer(ctx context.Context, question, answer string) (string, error) {
	prompt := fmt.Sprintf(
		"Question: %s\nAnswer: %s\nIn one short sentence, say whether the answer is correct and why.",
		question, answer)
	return svc.call(ctx, prompt)
}

func (svc *canisterService) call(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(canisterRequest{CanisterID: svc.canisterID, Prompt: prompt})
	if err != nil {
		return "", errors.Wrap(err, "encoding canister request")
	}

	req, err := http.NewRequest(http.MethodPost, svc.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "creating canister request")
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	resp, err := svc.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "calling AI canister")
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading canister response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("AI canister returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var cr canisterResponse
	if err = json.Unmarshal(body, &cr); err != nil {
		return "", errors.Wrap(err, "decoding canister response")
	}
	if cr.Error != "" {
		return "", errors.Errorf("AI canister error: %s", cr.Error)
	}
	return cr.Response, nil
}
