package session

import (
	"context"
	"fmt"
	"sync"

	"time-tracker-gateway/internal/errors"
)

// codec converts a value to and from its stored form. encode reports false
// when the value should be removed from storage instead.
type codec[T any] struct {
	encode func(T) (string, bool, error)
	decode func(string) (T, error)
}

// Value is an observable value mirrored to one storage key. Each Set replaces
// the whole value.
type Value[T any] struct {
	key     string
	storage Storage
	codec   codec[T]

	mu      sync.Mutex
	current T
	subs    map[int]func(T)
	nextSub int
}

func newValue[T any](key string, storage Storage, c codec[T]) *Value[T] {
	return &Value[T]{
		key:     key,
		storage: storage,
		codec:   c,
		subs:    make(map[int]func(T)),
	}
}

// load reads the stored value. A missing key leaves the zero value; an
// undecodable one is a validation error.
func (v *Value[T]) load(ctx context.Context) error {
	raw, ok, err := v.storage.Get(ctx, v.key)
	if err != nil || !ok {
		return err
	}
	decoded, err := v.codec.decode(raw)
	if err != nil {
		return errors.NewValidationError(fmt.Sprintf("stored %s could not be decoded", v.key), err)
	}
	v.mu.Lock()
	v.current = decoded
	v.mu.Unlock()
	return nil
}

// Key returns the storage key.
func (v *Value[T]) Key() string {
	return v.key
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set stores next and notifies subscribers. Storage is written first; on
// failure the current value is kept.
func (v *Value[T]) Set(ctx context.Context, next T) error {
	raw, keep, err := v.codec.encode(next)
	if err != nil {
		return err
	}
	if keep {
		err = v.storage.Set(ctx, v.key, raw)
	} else {
		err = v.storage.Remove(ctx, v.key)
	}
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.current = next
	subs := v.subscribers()
	v.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return nil
}

// Clear resets to the zero value and removes the storage key.
func (v *Value[T]) Clear(ctx context.Context) error {
	var zero T
	return v.Set(ctx, zero)
}

// Subscribe calls fn now with the current value and again after every
// change. The returned func stops the notifications.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	v.mu.Lock()
	id := v.nextSub
	v.nextSub++
	v.subs[id] = fn
	current := v.current
	v.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}

func (v *Value[T]) subscribers() []func(T) {
	out := make([]func(T), 0, len(v.subs))
	for i := 0; i < v.nextSub; i++ {
		if fn, ok := v.subs[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}
