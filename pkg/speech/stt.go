package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// STTClient 语音转文本客户端
type STTClient struct {
	APIServer  string
	APIKey     string
	httpClient *http.Client
}

// NewSTTClient 创建语音转文本客户端
func NewSTTClient(apiServer, apiKey string) *STTClient {
	return &STTClient{
		APIServer:  apiServer,
		APIKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Available STT能力是否可用
func (c *STTClient) Available() bool {
	return c != nil && c.APIServer != ""
}

// sttRequest STT请求体
type sttRequest struct {
	Audio    string `json:"audio"`    // base64编码的音频
	Language string `json:"language"` // 识别语言
}

// sttResponse STT响应
type sttResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

// Transcribe 将base64编码的音频转写为文本
func (c *STTClient) Transcribe(ctx context.Context, audioBase64, language string) (string, error) {
	if !c.Available() {
		return "", errors.New("STT服务未配置")
	}

	payload, err := json.Marshal(sttRequest{Audio: audioBase64, Language: language})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIServer, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var result sttResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("解析STT响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK || result.Error != "" {
		return "", fmt.Errorf("STT服务错误: 状态码 %d %s", resp.StatusCode, result.Error)
	}

	return result.Text, nil
}
