// Package schema declares the chatdb layout: database, collections and indexes.
package schema

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DatabaseName       = "chatdb"
	ChatsCollection    = "chats"
	MessagesCollection = "messages"
)

const (
	Ascending  = 1
	Descending = -1
)

type Key struct {
	Field string
	Order int
}

type Index struct {
	Collection string
	Name       string
	Keys       []Key
	Unique     bool
}

var (
	ChatIDIndex = Index{
		Collection: ChatsCollection,
		Name:       "chat_id_1",
		Keys:       []Key{{Field: "chat_id", Order: Ascending}},
		Unique:     true,
	}
	ParticipantsIndex = Index{
		Collection: ChatsCollection,
		Name:       "participants_1",
		Keys:       []Key{{Field: "participants", Order: Ascending}},
	}
	// ChatTimelineIndex serves "latest messages in a chat".
	ChatTimelineIndex = Index{
		Collection: MessagesCollection,
		Name:       "chat_id_1_timestamp_-1",
		Keys:       []Key{{Field: "chat_id", Order: Ascending}, {Field: "timestamp", Order: Descending}},
	}
)

// Collections lists collections in creation order.
func Collections() []string {
	return []string{ChatsCollection, MessagesCollection}
}

// Indexes lists indexes in creation order.
func Indexes() []Index {
	return []Index{ChatIDIndex, ParticipantsIndex, ChatTimelineIndex}
}

func (i Index) Model() mongo.IndexModel {
	keys := bson.D{}
	for _, k := range i.Keys {
		keys = append(keys, bson.E{Key: k.Field, Value: k.Order})
	}
	opts := options.Index().SetName(i.Name)
	if i.Unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: keys, Options: opts}
}

// Matches compares key fields, their order and direction, and uniqueness.
// Names are ignored: the server treats same-key indexes as the same index.
func (i Index) Matches(o Index) bool {
	if i.Unique != o.Unique || len(i.Keys) != len(o.Keys) {
		return false
	}
	for n := range i.Keys {
		if i.Keys[n].Field != o.Keys[n].Field || sign(i.Keys[n].Order) != sign(o.Keys[n].Order) {
			return false
		}
	}
	return true
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
