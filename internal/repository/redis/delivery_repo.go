package redis

import (
	"context"
	"fmt"
	"time"
)

const (
	DeliveryKeyPrefix = "webhook:delivery"
	DeliveryTTL       = 24 * time.Hour
)

// DeliveryRepository remembers processed webhook message ids so redelivered
// events can be acknowledged without repeating the mutation.
type DeliveryRepository struct{}

func deliveryKey(messageID string) string {
	return fmt.Sprintf("%s:%s", DeliveryKeyPrefix, messageID)
}

// FirstDelivery claims messageID. Returns true if this is the first time the
// id appears inside the retention window.
func (r *DeliveryRepository) FirstDelivery(ctx context.Context, messageID string) (bool, error) {
	ok, err := Client.SetNX(ctx, deliveryKey(messageID), 1, DeliveryTTL).Result()
	if err != nil {
		return false, fmt.Errorf("delivery log: %w", err)
	}
	return ok, nil
}

// Release drops the claim on messageID so the provider's redelivery gets
// processed instead of acknowledged away. Called when the mutation behind
// the claim failed.
func (r *DeliveryRepository) Release(ctx context.Context, messageID string) error {
	if err := Client.Del(ctx, deliveryKey(messageID)).Err(); err != nil {
		return fmt.Errorf("delivery log: %w", err)
	}
	return nil
}
