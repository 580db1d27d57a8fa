// Package assist implements the public AI chat widget: prompt assembly,
// throttling and reply redaction.
package assist

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kavanaghbl/chambers-site/internal/config"
	"github.com/kavanaghbl/chambers-site/internal/llm"
	"github.com/kavanaghbl/chambers-site/internal/models"
)

const (
	// FallbackReply is returned whenever the LLM call fails; the widget
	// must degrade, never error.
	FallbackReply = "Sorry—I'm unavailable right now. For anything important, " +
		"please use the contact form or book a consultation."

	ThrottledReply = "You're sending messages a bit quickly—please wait a moment and try again."

	DisabledReply = "The assistant is currently unavailable. Please use the contact form or book a consultation."

	maxHistory = 8
)

type Service struct {
	db  *gorm.DB
	cfg *config.Config
	llm *llm.Client
}

func NewService(db *gorm.DB, cfg *config.Config, client *llm.Client) *Service {
	return &Service{db: db, cfg: cfg, llm: client}
}

// Reply answers one widget message. History is truncated to the last few
// turns; the reply is redacted before it leaves the service.
func (s *Service) Reply(ctx context.Context, message string, history []llm.Message) string {
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: s.systemPrompt() + "\n\n" + s.siteMap(ctx),
	})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: message})

	reply, err := s.llm.Chat(ctx, messages, llm.CallOptions{
		Temperature: 0.2,
		MaxTokens:   350,
		Timeout:     25 * time.Second,
	})
	if err != nil {
		return FallbackReply
	}

	return RedactPersonal(reply)
}

func (s *Service) systemPrompt() string {
	return fmt.Sprintf(`You are a website assistant for %s.

RULES:
- Provide general, high-level information only. Do NOT give legal advice.
- If the user asks for case-specific guidance, politely decline and suggest booking a consultation.
- Jurisdiction: Ireland (unless user explicitly states otherwise).
- Do not collect sensitive personal data. If user shares it, warn and redirect to the contact form or booking.
- Tone: professional, warm, concise, plain English. Keep answers short (2-5 sentences) with clear CTAs when helpful.
- If unsure, say so and suggest booking.

INTERNAL LINKS:
- You may include internal links using HTML anchor tags: <a href="/path/">link text</a>
- ONLY link to URLs listed in the SITE MAP below, or to top-level pages: /about/, /contact/, /book/, /practice-areas/, /blog/, /cases/
- Do NOT invent or guess URLs. If unsure whether a specific page exists, link to the nearest parent page.`,
		s.cfg.BarristerName)
}

// siteMap lists real URLs from the database so the model never links to a
// page that does not exist. Lookups are best effort.
func (s *Service) siteMap(ctx context.Context) string {
	var parts []string

	parts = append(parts,
		"SITE MAP - Static Pages:",
		"- About: /about/",
		"- Contact: /contact/",
		"- Book Consultation: /book/",
		"- Practice Areas Index: /practice-areas/",
		"- Blog Index: /blog/",
		"- Case Studies Index: /cases/",
		"- Privacy Policy: /privacy/",
		"- Terms of Use: /terms/",
		"",
	)

	var areas []models.PracticeArea
	if err := s.db.WithContext(ctx).
		Order("display_order ASC").
		Limit(8).
		Find(&areas).Error; err == nil && len(areas) > 0 {

		parts = append(parts, "Practice Areas (detailed pages):")
		for _, area := range areas {
			parts = append(parts, fmt.Sprintf("- %s: /practice-areas/%s/", area.Name, area.Slug))
		}
		parts = append(parts, "")
	}

	var posts []models.BlogPost
	if err := s.db.WithContext(ctx).
		Where("published = ?", true).
		Order("published_at DESC").
		Limit(6).
		Find(&posts).Error; err == nil && len(posts) > 0 {

		parts = append(parts, "Recent Blog Posts:")
		for _, post := range posts {
			parts = append(parts, fmt.Sprintf("- %s: /blog/%s/", post.Title, post.Slug))
		}
		parts = append(parts, "")
	}

	var cases []models.CaseStudy
	if err := s.db.WithContext(ctx).
		Where("published = ?", true).
		Order("published_at DESC").
		Limit(4).
		Find(&cases).Error; err == nil && len(cases) > 0 {

		parts = append(parts, "Recent Case Studies:")
		for _, cs := range cases {
			parts = append(parts, fmt.Sprintf("- %s: /cases/%s/", cs.Title, cs.Slug))
		}
		parts = append(parts, "")
	}

	return strings.Join(parts, "\n")
}

var (
	emailPattern = regexp.MustCompile(`[\w\.-]+@[\w\.-]+`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s\-\(\)]{7,}\d`)
)

// RedactPersonal strips emails and phone numbers so the widget never
// echoes contact details back.
func RedactPersonal(text string) string {
	text = emailPattern.ReplaceAllString(text, "[redacted-email]")
	text = phonePattern.ReplaceAllString(text, "[redacted-phone]")
	return text
}
