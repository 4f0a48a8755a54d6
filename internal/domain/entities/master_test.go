package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
)

func TestMasterStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from entities.MasterStatus
		to   entities.MasterStatus
		want bool
	}{
		{entities.MasterStatusNew, entities.MasterStatusApproved, true},
		{entities.MasterStatusNew, entities.MasterStatusRejected, true},
		{entities.MasterStatusNew, entities.MasterStatusInactive, false},
		{entities.MasterStatusApproved, entities.MasterStatusApproved, true},
		{entities.MasterStatusApproved, entities.MasterStatusInactive, true},
		{entities.MasterStatusRejected, entities.MasterStatusInactive, true},
		{entities.MasterStatusInactive, entities.MasterStatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestMaster_HasPriceAndPhoto(t *testing.T) {
	price := 1000
	empty := ""
	m := &entities.Master{PriceMin: &price, PhotoFileID: &empty}

	assert.True(t, m.HasPrice())
	assert.False(t, m.HasPhoto())
	assert.False(t, (&entities.Master{}).HasPrice())
}

func TestNewDirectoryEvent(t *testing.T) {
	event := entities.NewDirectoryEvent(entities.DirectoryEventReviewSubmitted, map[string]interface{}{"rating": 4.5}).ForMaster(7)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, int64(7), event.MasterID)
	assert.Equal(t, entities.DirectoryEventReviewSubmitted, event.EventType)
	assert.False(t, event.Timestamp.IsZero())
}
