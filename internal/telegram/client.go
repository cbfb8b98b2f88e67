package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const defaultAPIHost = "https://api.telegram.org"

// Client is a thin typed wrapper over the Bot API HTTP surface.
type Client struct {
	token        string
	apiHost      string
	paymentToken string
	httpClient   *http.Client
}

func NewClient(token, paymentToken string) *Client {
	return &Client{
		token:        token,
		apiHost:      defaultAPIHost,
		paymentToken: paymentToken,
		httpClient:   &http.Client{},
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
}

func (c *Client) call(ctx context.Context, method string, payload interface{}, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/bot%s/%s", c.apiHost, c.token, method), bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	return decodeAPIResponse(method, resp.Body, result)
}

func decodeAPIResponse(method string, r io.Reader, result interface{}) error {
	var apiResp apiResponse
	if err := json.NewDecoder(r).Decode(&apiResp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("%s returned an error: %s", method, apiResp.Description)
	}
	if result != nil {
		if err := json.Unmarshal(apiResp.Result, result); err != nil {
			return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
		}
	}
	return nil
}

// GetUpdates long-polls for new updates starting at offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	payload := map[string]interface{}{
		"offset":  offset,
		"timeout": int(timeout.Seconds()),
	}

	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) error {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call(ctx, "sendMessage", payload, nil)
}

// SendPhoto uploads raw image bytes as a photo attachment.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("chat_id", fmt.Sprintf("%d", chatID)); err != nil {
		return fmt.Errorf("failed to build sendPhoto form: %w", err)
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return fmt.Errorf("failed to build sendPhoto form: %w", err)
		}
	}
	part, err := writer.CreateFormFile("photo", "image.png")
	if err != nil {
		return fmt.Errorf("failed to build sendPhoto form: %w", err)
	}
	if _, err := part.Write(photo); err != nil {
		return fmt.Errorf("failed to build sendPhoto form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to build sendPhoto form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/bot%s/sendPhoto", c.apiHost, c.token), &buf)
	if err != nil {
		return fmt.Errorf("failed to create sendPhoto request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendPhoto request failed: %w", err)
	}
	defer resp.Body.Close()

	return decodeAPIResponse("sendPhoto", resp.Body, nil)
}

func (c *Client) SendInvoice(ctx context.Context, chatID int64, invoice Invoice) error {
	payload := map[string]interface{}{
		"chat_id":        chatID,
		"title":          invoice.Title,
		"description":    invoice.Description,
		"payload":        invoice.Payload,
		"provider_token": c.paymentToken,
		"currency":       invoice.Currency,
		"prices":         invoice.Prices,
	}
	return c.call(ctx, "sendInvoice", payload, nil)
}

func (c *Client) AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool) error {
	payload := map[string]interface{}{
		"pre_checkout_query_id": queryID,
		"ok":                    ok,
	}
	return c.call(ctx, "answerPreCheckoutQuery", payload, nil)
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, queryID string) error {
	payload := map[string]interface{}{
		"callback_query_id": queryID,
	}
	return c.call(ctx, "answerCallbackQuery", payload, nil)
}

// FileURL resolves a file id to a direct download URL.
func (c *Client) FileURL(ctx context.Context, fileID string) (string, error) {
	var file File
	if err := c.call(ctx, "getFile", map[string]interface{}{"file_id": fileID}, &file); err != nil {
		return "", err
	}
	if file.FilePath == "" {
		return "", fmt.Errorf("getFile returned no file path for %s", fileID)
	}
	return fmt.Sprintf("%s/file/bot%s/%s", c.apiHost, c.token, file.FilePath), nil
}

func (c *Client) SetWebhook(ctx context.Context, url string) error {
	return c.call(ctx, "setWebhook", map[string]interface{}{"url": url}, nil)
}

func (c *Client) DeleteWebhook(ctx context.Context) error {
	return c.call(ctx, "deleteWebhook", map[string]interface{}{}, nil)
}
