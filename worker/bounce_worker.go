package worker

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"neshama/config"
	"neshama/models"
	"neshama/utils"
)

// bounceScanInterval is how often the bounce mailbox is polled.
const bounceScanInterval = 15 * time.Minute

// failedRecipientPattern extracts the failed address from common DSN bodies.
var failedRecipientPattern = regexp.MustCompile(`(?i)(?:Final-Recipient:.*?;\s*|failed for\s+|to\s+)<?([a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})>?`)

// hardBouncePattern matches permanent-failure wording and 5xx status codes.
var hardBouncePattern = regexp.MustCompile(`(?i)Status:\s*5\.\d+\.\d+|550|551|553|user unknown|does not exist|no such user|mailbox unavailable`)

// BounceWorker polls the bounce mailbox, records delivery failures, and
// revokes engagement consent on hard bounces so dead addresses leave the
// campaign pool.
type BounceWorker struct {
	DB  *gorm.DB
	Cfg config.IMAPConfig

	stop chan struct{}
}

func NewBounceWorker(db *gorm.DB, cfg config.IMAPConfig) *BounceWorker {
	return &BounceWorker{DB: db, Cfg: cfg, stop: make(chan struct{})}
}

// Start runs the polling loop until the context is cancelled or Stop is
// called. One scan runs immediately on startup.
func (w *BounceWorker) Start(ctx context.Context) {
	log.Infof("📬 Bounce monitor started (mailbox %s, every %s)", w.Cfg.Mailbox, bounceScanInterval)

	ticker := time.NewTicker(bounceScanInterval)
	defer ticker.Stop()

	w.scanOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			w.scanOnce(ctx)
		}
	}
}

func (w *BounceWorker) Stop() {
	close(w.stop)
}

func (w *BounceWorker) scanOnce(ctx context.Context) {
	if err := w.scanMailbox(ctx); err != nil {
		utils.LogError(err, "bounce_scan_failed", map[string]interface{}{
			"mailbox": w.Cfg.Mailbox,
		})
	}
}

func (w *BounceWorker) scanMailbox(ctx context.Context) error {
	imapAddr := fmt.Sprintf("%s:%d", w.Cfg.Host, w.Cfg.Port)
	imapClient, err := client.DialTLS(imapAddr, &tls.Config{
		ServerName: w.Cfg.Host,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to IMAP server: %v", err)
	}
	defer imapClient.Logout()

	if err := imapClient.Login(w.Cfg.Username, w.Cfg.Password); err != nil {
		return fmt.Errorf("failed to login to IMAP server: %v", err)
	}

	mailbox := w.Cfg.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	if _, err := imapClient.Select(mailbox, false); err != nil {
		return fmt.Errorf("failed to select mailbox: %v", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{"\\Seen"}
	ids, err := imapClient.Search(criteria)
	if err != nil {
		return fmt.Errorf("failed to search messages: %v", err)
	}
	if len(ids) == 0 {
		return nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- imapClient.Fetch(seqset, []imap.FetchItem{imap.FetchEnvelope, imap.FetchItem("BODY.PEEK[]")}, messages)
	}()

	processed := new(imap.SeqSet)
	for msg := range messages {
		if err := w.processMessage(ctx, msg); err != nil {
			log.Warnf("Failed to process bounce message %d: %v", msg.SeqNum, err)
			continue
		}
		processed.AddNum(msg.SeqNum)
	}
	if err := <-done; err != nil {
		return fmt.Errorf("error during fetch: %v", err)
	}

	if !processed.Empty() {
		flags := []interface{}{imap.SeenFlag}
		item := imap.FormatFlagsOp(imap.AddFlags, true)
		if err := imapClient.Store(processed, item, flags, nil); err != nil {
			log.Warnf("Failed to mark bounce messages seen: %v", err)
		}
	}
	return nil
}

func (w *BounceWorker) processMessage(ctx context.Context, msg *imap.Message) error {
	if msg.Envelope == nil || !looksLikeBounce(msg.Envelope) {
		return nil
	}

	body, err := readMessageBody(msg)
	if err != nil {
		return err
	}

	recipient := extractFailedRecipient(body)
	if recipient == "" {
		return nil
	}

	bounceType := "soft"
	if hardBouncePattern.MatchString(body) {
		bounceType = "hard"
	}

	messageID := ""
	if msg.Envelope.MessageId != "" {
		messageID = msg.Envelope.MessageId
	}

	var user models.User
	userID := uint(0)
	if err := w.DB.WithContext(ctx).Where("email = ?", recipient).First(&user).Error; err == nil {
		userID = user.ID
	}

	event := models.BounceEvent{
		UserID:     userID,
		Recipient:  recipient,
		BounceType: bounceType,
		Reason:     msg.Envelope.Subject,
		MessageID:  messageID,
	}
	if err := w.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to record bounce: %v", err)
	}

	if bounceType == "hard" && userID != 0 {
		err := w.DB.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", userID).
			Update("engagement_emails_consent", false).Error
		if err != nil {
			return fmt.Errorf("failed to revoke consent: %v", err)
		}
		utils.LogEvent("engagement_consent_revoked_bounce", map[string]interface{}{
			"user_id":   userID,
			"recipient": recipient,
		})
	}

	log.Infof("📭 Recorded %s bounce for %s", bounceType, recipient)
	return nil
}

// looksLikeBounce filters on the classic DSN markers before spending time
// parsing the body.
func looksLikeBounce(env *imap.Envelope) bool {
	for _, from := range env.From {
		mbox := strings.ToLower(from.MailboxName)
		if strings.Contains(mbox, "mailer-daemon") || strings.Contains(mbox, "postmaster") {
			return true
		}
	}
	subject := strings.ToLower(env.Subject)
	return strings.Contains(subject, "undelivered") ||
		strings.Contains(subject, "delivery status notification") ||
		strings.Contains(subject, "returned mail") ||
		strings.Contains(subject, "failure notice")
}

func readMessageBody(msg *imap.Message) (string, error) {
	literal := msg.GetBody(&imap.BodySectionName{})
	if literal == nil {
		return "", fmt.Errorf("message body not found")
	}

	mr, err := mail.CreateReader(literal)
	if err != nil {
		return "", fmt.Errorf("failed to create message reader: %v", err)
	}

	var sb strings.Builder
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			break
		}
		switch p.Header.(type) {
		case *mail.InlineHeader:
			b, err := io.ReadAll(p.Body)
			if err == nil {
				sb.Write(b)
				sb.WriteString("\n")
			}
		case *mail.AttachmentHeader:
			// DSN reports often carry the status as an attachment part.
			b, err := io.ReadAll(p.Body)
			if err == nil {
				sb.Write(b)
				sb.WriteString("\n")
			}
		}
	}
	return sb.String(), nil
}

func extractFailedRecipient(body string) string {
	matches := failedRecipientPattern.FindStringSubmatch(body)
	if len(matches) < 2 {
		return ""
	}
	return strings.ToLower(matches[1])
}
