package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/UCgr8/needsites-public-sub000/internal/domain"
	"github.com/UCgr8/needsites-public-sub000/internal/pkg/config"
)

// Client talks to the transactional email provider's HTTP API. Missing
// credentials surface as distinct configuration errors at send time, and
// provider rejections are relayed with their original status and message.
type Client struct {
	apiURL    string
	apiKey    string
	from      string
	contactTo string
	client    *http.Client
}

func NewClient(cfg config.MailConfig) *Client {
	return &Client{
		apiURL:    strings.TrimRight(cfg.APIURL, "/"),
		apiKey:    cfg.APIKey,
		from:      cfg.From,
		contactTo: cfg.ContactTo,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

type providerError struct {
	Message string `json:"message"`
	Name    string `json:"name,omitempty"`
}

// SendLeadNotification formats a captured lead and sends it to the fixed
// operator address, with the submitter as reply-to.
func (c *Client) SendLeadNotification(lead *domain.Lead) error {
	if err := c.checkConfig(); err != nil {
		return err
	}

	req := sendRequest{
		From:    c.from,
		To:      []string{c.contactTo},
		ReplyTo: lead.Email,
		Subject: subjectFor(lead),
		Text:    bodyFor(lead),
	}
	return c.send(req)
}

// checkConfig names the first missing credential so operators can tell
// the three misconfigurations apart from the error message alone.
func (c *Client) checkConfig() error {
	if c.apiKey == "" {
		return domain.NewMailConfigError("MAIL_API_KEY")
	}
	if c.from == "" {
		return domain.NewMailConfigError("MAIL_FROM")
	}
	if c.contactTo == "" {
		return domain.NewMailConfigError("MAIL_CONTACT_TO")
	}
	return nil
}

func (c *Client) send(payload sendRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", c.apiURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.NewAppError("NETWORK_ERROR", "Could not reach the email service, please try again", http.StatusBadGateway).WithError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(resp.Body)
	var pe providerError
	if json.Unmarshal(raw, &pe) == nil && pe.Message != "" {
		return domain.NewProviderError(resp.StatusCode, pe.Message)
	}
	return domain.NewProviderError(resp.StatusCode, fmt.Sprintf("email provider returned status %d", resp.StatusCode))
}

func subjectFor(lead *domain.Lead) string {
	switch lead.Kind {
	case domain.LeadKindBuyNow:
		return fmt.Sprintf("Buy now: %s", lead.DomainName)
	case domain.LeadKindOffer:
		amount := int64(0)
		if lead.OfferAmount != nil {
			amount = *lead.OfferAmount
		}
		return fmt.Sprintf("Offer $%d: %s", amount, lead.DomainName)
	case domain.LeadKindRentToOwn:
		return fmt.Sprintf("Rent to own: %s", lead.DomainName)
	default:
		if lead.Subject != "" {
			return fmt.Sprintf("Contact: %s", lead.Subject)
		}
		return "Contact form submission"
	}
}

func bodyFor(lead *domain.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", lead.Name)
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	if lead.DomainName != "" {
		fmt.Fprintf(&b, "Domain: %s\n", lead.DomainName)
	}
	if lead.OfferAmount != nil {
		fmt.Fprintf(&b, "Offer: $%d\n", *lead.OfferAmount)
	}
	if lead.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", lead.Subject)
	}
	if lead.Src != "" {
		fmt.Fprintf(&b, "Source: %s\n", lead.Src)
	}
	if lead.Host != "" {
		fmt.Fprintf(&b, "Host: %s\n", lead.Host)
	}
	if lead.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", lead.Message)
	}
	if len(lead.Meta) > 0 {
		b.WriteString("\n--\n")
		for _, key := range []string{"user_agent", "path", "referrer", "timestamp"} {
			if v, ok := lead.Meta[key].(string); ok && v != "" {
				fmt.Fprintf(&b, "%s: %s\n", key, v)
			}
		}
	}
	return b.String()
}
