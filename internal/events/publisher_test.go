package events

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestPublisherWithoutConnectionDropsEvents(t *testing.T) {
	publisher := NewPublisher(nil, "", zerolog.Nop())
	require.Equal(t, "idcard.print.completed", publisher.PrintCompletedSubject())
	require.NoError(t, publisher.PublishPrintCompleted(context.Background(), PrintCompleted{BatchID: "b1"}))

	var nilPublisher *Publisher
	require.NoError(t, nilPublisher.PublishPrintCompleted(context.Background(), PrintCompleted{}))
}

func TestPublisherSubjectPrefix(t *testing.T) {
	publisher := NewPublisher(nil, " school.cards. ", zerolog.Nop())
	require.Equal(t, "school.cards.print.completed", publisher.PrintCompletedSubject())
}
