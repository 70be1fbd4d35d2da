package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fathima-sithara/chatdb-init/internal/schema"
)

const participantLookupLimit = 100

type Check struct {
	Name   string
	OK     bool
	Detail string
}

type Report struct {
	Database string
	Checks   []Check
}

func (r *Report) OK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

func (r *Report) Failed() []Check {
	var out []Check
	for _, c := range r.Checks {
		if !c.OK {
			out = append(out, c)
		}
	}
	return out
}

func (r *Report) add(name string, ok bool, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, OK: ok, Detail: detail})
}

// Verify inspects the database read-only. Failed checks land in the report;
// the error is reserved for store failures.
func (b *Bootstrapper) Verify(ctx context.Context) (*Report, error) {
	rep := &Report{Database: b.store.Database()}

	names, err := b.store.CollectionNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	present := map[string]bool{}
	for _, n := range names {
		present[n] = true
	}
	for _, c := range schema.Collections() {
		rep.add("collection "+c, present[c], detailIf(!present[c], "missing"))
	}

	existing := map[string][]schema.Index{}
	for _, c := range schema.Collections() {
		if !present[c] {
			continue
		}
		idx, err := b.store.Indexes(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("list indexes %s: %w", c, err)
		}
		existing[c] = idx
	}
	for _, want := range schema.Indexes() {
		found := false
		for _, got := range existing[want.Collection] {
			if want.Matches(got) {
				found = true
				break
			}
		}
		rep.add("index "+want.Name, found, detailIf(!found, "no matching index on "+want.Collection))
	}

	n, err := b.store.CountChats(ctx, SeedChatID)
	if err != nil {
		return nil, fmt.Errorf("count chats: %w", err)
	}
	rep.add(fmt.Sprintf("seed chat %d", SeedChatID), n == 1, fmt.Sprintf("%d document(s) with chat_id %d", n, SeedChatID))

	chats, err := b.store.ChatsByParticipant(ctx, SeedUserID, participantLookupLimit)
	if err != nil {
		return nil, fmt.Errorf("chats by participant: %w", err)
	}
	member := false
	for _, c := range chats {
		if c.ChatID == SeedChatID && c.HasParticipant(SeedUserID) {
			member = true
			break
		}
	}
	rep.add(fmt.Sprintf("participant %d lookup", SeedUserID), member,
		detailIf(!member, fmt.Sprintf("chat %d not returned", SeedChatID)))

	msgs, err := b.store.RecentMessages(ctx, SeedChatID, 1)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	latest, detail := false, "no messages"
	if len(msgs) == 1 {
		m := msgs[0]
		latest = m.ChatID == SeedChatID && m.SenderID == SeedUserID && m.Text == SeedMessageText
		detail = fmt.Sprintf("newest is %q from sender %d", m.Text, m.SenderID)
	}
	rep.add(fmt.Sprintf("latest message in chat %d", SeedChatID), latest, detailIf(!latest, detail))

	if rep.OK() {
		b.logger.Info("verification passed", zap.String("database", rep.Database))
	} else {
		b.logger.Warn("verification failed",
			zap.String("database", rep.Database),
			zap.Int("failed", len(rep.Failed())),
		)
	}
	return rep, nil
}

func detailIf(cond bool, s string) string {
	if cond {
		return s
	}
	return ""
}
