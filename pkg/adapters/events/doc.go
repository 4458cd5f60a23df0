// Package events provides event bus implementations for analysis events.
//
// Implementations:
//   - redis: Redis Streams, shared between replicas
//   - memory: In-process fan-out (default when no Redis is configured)
package events
