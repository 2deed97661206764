// Package store 提供 core.Store / core.KeyValueStore 的实现：
// MemoryStore（测试/单机）与 RedisStore（生产）。关系型存储见 store/postgres。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
//	var kv core.KeyValueStore = store.NewMemoryStore()
package store
