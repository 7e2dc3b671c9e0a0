package event

import (
	"context"
	"log/slog"

	"github.com/Phurinon/Project-SE-T14-sub000/pkg/kafka"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/logger"
)

// Topics for domain events.
const (
	TopicAccountRegistered = "shopdir.account.registered"
	TopicReviewCreated     = "shopdir.review.created"
	TopicCommentReported   = "shopdir.comment.reported"
	TopicContentModerated  = "shopdir.content.moderated"
)

const source = "shopdir-api"

// Publisher emits domain events. Implementations must never propagate publish
// failures to the caller; events are best effort.
type Publisher interface {
	AccountRegistered(ctx context.Context, accountID, email, role string)
	ReviewCreated(ctx context.Context, reviewID, shopID, accountID string, rating int)
	CommentReported(ctx context.Context, commentID, shopID, reporterID, reason string)
	ContentModerated(ctx context.Context, contentType, contentID, moderatorID, status string)
}

// AccountRegisteredData is the payload for account registration events.
type AccountRegisteredData struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// ReviewCreatedData is the payload for review creation events.
type ReviewCreatedData struct {
	ReviewID  string `json:"review_id"`
	ShopID    string `json:"shop_id"`
	AccountID string `json:"account_id"`
	Rating    int    `json:"rating"`
}

// CommentReportedData is the payload for comment report events.
type CommentReportedData struct {
	CommentID  string `json:"comment_id"`
	ShopID     string `json:"shop_id"`
	ReporterID string `json:"reporter_id"`
	Reason     string `json:"reason"`
}

// ContentModeratedData is the payload for moderation decision events.
type ContentModeratedData struct {
	ContentType string `json:"content_type"`
	ContentID   string `json:"content_id"`
	ModeratorID string `json:"moderator_id"`
	Status      string `json:"status"`
}

// KafkaPublisher publishes domain events to Kafka topics.
type KafkaPublisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewKafkaPublisher creates a publisher backed by the given producer.
func NewKafkaPublisher(producer *kafka.Producer, log *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, logger: log}
}

func (p *KafkaPublisher) AccountRegistered(ctx context.Context, accountID, email, role string) {
	p.publish(ctx, TopicAccountRegistered, "account.registered", accountID, "account",
		AccountRegisteredData{AccountID: accountID, Email: email, Role: role})
}

func (p *KafkaPublisher) ReviewCreated(ctx context.Context, reviewID, shopID, accountID string, rating int) {
	p.publish(ctx, TopicReviewCreated, "review.created", reviewID, "review",
		ReviewCreatedData{ReviewID: reviewID, ShopID: shopID, AccountID: accountID, Rating: rating})
}

func (p *KafkaPublisher) CommentReported(ctx context.Context, commentID, shopID, reporterID, reason string) {
	p.publish(ctx, TopicCommentReported, "comment.reported", commentID, "comment",
		CommentReportedData{CommentID: commentID, ShopID: shopID, ReporterID: reporterID, Reason: reason})
}

func (p *KafkaPublisher) ContentModerated(ctx context.Context, contentType, contentID, moderatorID, status string) {
	p.publish(ctx, TopicContentModerated, "content.moderated", contentID, contentType,
		ContentModeratedData{ContentType: contentType, ContentID: contentID, ModeratorID: moderatorID, Status: status})
}

// publish builds the envelope and sends it. Failures are logged and dropped;
// a broker outage must never fail the request that produced the event.
func (p *KafkaPublisher) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, data any) {
	ev, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}

	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		ev = ev.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, topic, ev); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("topic", topic),
			slog.String("event_type", eventType),
			slog.String("aggregate_id", aggregateID),
			slog.String("error", err.Error()))
	}
}

// NoopPublisher drops all events. Used when Kafka is disabled and in tests.
type NoopPublisher struct{}

func (NoopPublisher) AccountRegistered(context.Context, string, string, string) {}

func (NoopPublisher) ReviewCreated(context.Context, string, string, string, int) {}

func (NoopPublisher) CommentReported(context.Context, string, string, string, string) {}

func (NoopPublisher) ContentModerated(context.Context, string, string, string, string) {}
