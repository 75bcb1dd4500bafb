package service

import (
	"context"
	"encoding/json"
	"errors"
	"gatebot/internal/core/domain"
	"reflect"
)

// memStore is an in-memory port.Store for tests.
type memStore struct {
	data   map[string]map[string]json.RawMessage
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]map[string]json.RawMessage)}
}

func (m *memStore) Get(_ context.Context, collection, key string, out any) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	raw, ok := m.data[collection][key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (m *memStore) Set(_ context.Context, collection, key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]json.RawMessage)
	}
	m.data[collection][key] = raw
	return nil
}

func (m *memStore) Update(_ context.Context, collection, key string, fields map[string]any) error {
	raw, ok := m.data[collection][key]
	if !ok {
		return errors.New("record not found")
	}
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return err
	}
	for k, v := range fields {
		record[k] = v
	}
	merged, err := json.Marshal(record)
	if err != nil {
		return err
	}
	m.data[collection][key] = merged
	return nil
}

func (m *memStore) Delete(_ context.Context, collection, key string) (bool, error) {
	_, ok := m.data[collection][key]
	delete(m.data[collection], key)
	return ok, nil
}

func (m *memStore) Has(_ context.Context, collection, key string) (bool, error) {
	_, ok := m.data[collection][key]
	return ok, nil
}

func (m *memStore) Find(_ context.Context, collection string, filter map[string]any, out any) error {
	var raws []json.RawMessage
	for _, raw := range m.data[collection] {
		var record map[string]any
		if err := json.Unmarshal(raw, &record); err != nil {
			return err
		}
		matched := true
		for k, v := range filter {
			if !reflect.DeepEqual(record[k], v) {
				matched = false
				break
			}
		}
		if matched {
			raws = append(raws, raw)
		}
	}
	all, err := json.Marshal(raws)
	if err != nil {
		return err
	}
	return json.Unmarshal(all, out)
}

func (m *memStore) All(_ context.Context, collection string, out any) error {
	return m.Find(context.Background(), collection, nil, out)
}

// mockTextSender counts sends and records sent texts.
type mockTextSender struct {
	texts    []string
	replies  []string
	sendErr  error
	lastChat string
}

func (m *mockTextSender) SendText(_ context.Context, chatID string, text string) (int, error) {
	m.lastChat = chatID
	m.texts = append(m.texts, text)
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	return len(m.texts), nil
}

func (m *mockTextSender) SendReply(_ context.Context, _ *domain.Message, text string) (int, error) {
	m.replies = append(m.replies, text)
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	return len(m.replies), nil
}
