package ecs

import "reflect"

// 泛型查询辅助函数
//
// 组件统一使用指针类型注册（如 *components.SnowflakeComponent），
// 泛型参数 T 即为该指针类型。

// GetComponent 以泛型方式获取实体组件
//
// 用法：
//
//	flake, ok := ecs.GetComponent[*components.SnowflakeComponent](em, id)
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	comp, ok := em.GetComponent(id, reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	typed, ok := comp.(T)
	return typed, ok
}

// AddComponent 以泛型方式为实体添加组件
func AddComponent[T any](em *EntityManager, id EntityID, component T) {
	em.AddComponent(id, component)
}

// RemoveComponent 以泛型方式移除实体组件
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	em.RemoveComponent(id, reflect.TypeFor[T]())
}

// HasComponent 以泛型方式检查实体是否拥有组件
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	return em.HasComponent(id, reflect.TypeFor[T]())
}

// GetEntitiesWith1 查询拥有组件 A 的实体
func GetEntitiesWith1[A any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(reflect.TypeFor[A]())
}

// GetEntitiesWith2 查询同时拥有组件 A、B 的实体
func GetEntitiesWith2[A, B any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(reflect.TypeFor[A](), reflect.TypeFor[B]())
}
