// Package domain contains the core business entities, value objects, and
// domain logic of the learning platform: users, stacks, themes, and the
// per-user progress records linking them. It is independent of any specific
// infrastructure or delivery mechanism.
package domain
