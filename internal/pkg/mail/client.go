package mail

import (
	"Teamflow/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Client 邀请邮件走邮件网关的 HTTP API 发送
type Client struct {
	httpClient *resty.Client
	from       string
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func NewClient() *Client {
	mailCfg := config.Cfg.Mail

	httpClient := resty.New().
		SetBaseURL(mailCfg.URL).
		SetTimeout(10 * time.Second).
		SetHeader("Authorization", "Bearer "+mailCfg.ApiKey).
		SetRetryCount(2)

	return &Client{
		httpClient: httpClient,
		from:       mailCfg.From,
	}
}

// SendInvite 发送工作区邀请邮件
func (s *Client) SendInvite(ctx context.Context, email, workspaceName, token string) error {
	body := fmt.Sprintf("你被邀请加入工作区「%s」，请使用邀请码 %s 完成加入。", workspaceName, token)

	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(&sendRequest{
			From:    s.from,
			To:      email,
			Subject: fmt.Sprintf("邀请你加入 %s", workspaceName),
			Body:    body,
		}).
		Post("/v1/send")
	if err != nil {
		return errors.Wrap(err, "send invite mail")
	}
	if resp.IsError() {
		log.Error("mail gateway rejected request", "status", resp.StatusCode(), "to", email)
		return errors.Errorf("mail gateway status %d", resp.StatusCode())
	}

	return nil
}
