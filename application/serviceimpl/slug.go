package serviceimpl

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"gofiber-todo/domain/repositories"
)

// maxSlugAttempts จำนวนครั้งที่ลอง insert ใหม่เมื่อชน unique index (มีคนสร้างชื่อเดียวกันพร้อมกัน)
const maxSlugAttempts = 5

const fallbackSlug = "category"

// maxBaseSlugLen เผื่อที่ให้ "-N" ใน column slug (size:300)
// ชื่อ 255 ตัวอักษรที่ถูก transliterate (เช่นภาษาจีน) ยาวกว่านี้ได้หลายเท่า
const maxBaseSlugLen = 280

// BaseSlug แปลงชื่อเป็น slug; ถ้าไม่เหลืออะไรเลยใช้ "category"
func BaseSlug(name string) string {
	s := slug.Make(name)
	if len(s) > maxBaseSlugLen {
		cut := s[:maxBaseSlugLen]
		for !utf8.ValidString(cut) {
			cut = cut[:len(cut)-1]
		}
		s = strings.TrimRight(cut, "-")
	}
	if s == "" {
		return fallbackSlug
	}
	return s
}

// UniqueSlug ไล่ base, base-1, base-2, ... จนกว่าจะไม่ซ้ำกับ category อื่นของ user
// excludeID คือ category ที่กำลังแก้ไข (0 = สร้างใหม่)
func UniqueSlug(ctx context.Context, repo repositories.CategoryRepository, userID uuid.UUID, name string, excludeID uint) (string, error) {
	base := BaseSlug(name)
	candidate := base

	for counter := 1; ; counter++ {
		exists, err := repo.SlugExists(ctx, userID, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}
