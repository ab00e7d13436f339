// Package pool implements typed object pooling on top of sync.Pool.
//
// Core Types:
//
//   - Pool[T]: Generic pool implementation for any type T
//   - ByteBufferPool: scratch buffers used to build row keys
//
// Objects obtained with Get must be returned with Put once the caller no
// longer references them. Reset functions run on Put, never on Get.
package pool
