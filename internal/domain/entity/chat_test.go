package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairKey(t *testing.T) {
	assert.Equal(t, PairKey("alice", "bob"), PairKey("bob", "alice"))
	assert.Equal(t, "alice_bob", PairKey("bob", "alice"))
	assert.NotEqual(t, PairKey("alice", "bob"), PairKey("alice", "carol"))
}

func TestChatParticipants(t *testing.T) {
	chat := &Chat{Participants: []string{"alice", "bob"}}

	assert.True(t, chat.HasParticipant("alice"))
	assert.True(t, chat.HasParticipant("bob"))
	assert.False(t, chat.HasParticipant("carol"))

	assert.Equal(t, "bob", chat.OtherParticipant("alice"))
	assert.Equal(t, "alice", chat.OtherParticipant("bob"))
}

func TestChatUnreadFor(t *testing.T) {
	chat := &Chat{UnreadCounts: map[string]int{"alice": 3}}

	assert.Equal(t, 3, chat.UnreadFor("alice"))
	assert.Equal(t, 0, chat.UnreadFor("bob"))

	empty := &Chat{}
	assert.Equal(t, 0, empty.UnreadFor("alice"))
}

func TestStatusRank(t *testing.T) {
	assert.Less(t, StatusRank(StatusSent), StatusRank(StatusDelivered))
	assert.Less(t, StatusRank(StatusDelivered), StatusRank(StatusRead))
	assert.Less(t, StatusRank("bogus"), StatusRank(StatusSent))
}
