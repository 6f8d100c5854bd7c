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

// TTSClient 文本转语音客户端
type TTSClient struct {
	APIServer  string
	APIKey     string
	Voice      string
	httpClient *http.Client
}

// NewTTSClient 创建文本转语音客户端
// apiServer为空表示平台未提供TTS能力
func NewTTSClient(apiServer, apiKey, voice string) *TTSClient {
	return &TTSClient{
		APIServer:  apiServer,
		APIKey:     apiKey,
		Voice:      voice,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Available TTS能力是否可用
func (c *TTSClient) Available() bool {
	return c != nil && c.APIServer != ""
}

// ttsRequest TTS请求体
type ttsRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// ttsResponse TTS响应
type ttsResponse struct {
	AudioContent string `json:"audioContent"`
	Error        string `json:"error"`
}

// Synthesize 合成语音，返回base64编码的音频内容
func (c *TTSClient) Synthesize(ctx context.Context, text string) (string, error) {
	if !c.Available() {
		return "", errors.New("TTS服务未配置")
	}

	payload, err := json.Marshal(ttsRequest{Text: text, Voice: c.Voice})
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

	var result ttsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("解析TTS响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK || result.Error != "" {
		return "", fmt.Errorf("TTS服务错误: 状态码 %d %s", resp.StatusCode, result.Error)
	}
	if result.AudioContent == "" {
		return "", errors.New("TTS响应中没有音频内容")
	}

	return result.AudioContent, nil
}

// AudioDataURL 将base64音频内容包装为data URL
func AudioDataURL(audioContent string) string {
	return "data:audio/mp3;base64," + audioContent
}
