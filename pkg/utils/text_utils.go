package utils

import (
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// WrappedLine 换行后的一行
type WrappedLine struct {
	Text  string // 该行文本（不含断行处被吃掉的空格）
	Start int    // 该行第一个字符在原文中的字符索引（按 rune 计）
}

// TextMeasurer 测量文本宽度（像素）
type TextMeasurer func(s string) float64

// WrapText 将文本按指定宽度自动换行
// 参数:
//   - textStr: 要换行的文本
//   - font: 字体
//   - maxWidth: 最大宽度（像素）
//
// 返回:
//   - []WrappedLine: 换行后的行（至少一行）
//
// 换行规则:
//   - 优先在空格处断行，断行处的空格不显示
//   - 如果单词太长超过最大宽度，强制断行
//   - 按字符遍历，支持越南语等多字节文本
func WrapText(textStr string, font *text.GoTextFace, maxWidth float64) []WrappedLine {
	if font == nil {
		return []WrappedLine{{Text: textStr}}
	}
	return WrapTextWith(textStr, func(s string) float64 {
		return measureTextWidth(s, font)
	}, maxWidth)
}

// WrapTextWith 使用自定义测量函数换行（便于测试）
func WrapTextWith(textStr string, measure TextMeasurer, maxWidth float64) []WrappedLine {
	if textStr == "" || measure == nil || maxWidth <= 0 || measure(textStr) <= maxWidth {
		return []WrappedLine{{Text: textStr}}
	}

	runes := []rune(textStr)
	var lines []WrappedLine
	start := 0

	for start < len(runes) {
		end := start
		lastSpace := -1
		for end < len(runes) && measure(string(runes[start:end+1])) <= maxWidth {
			if runes[end] == ' ' {
				lastSpace = end
			}
			end++
		}

		if end == len(runes) {
			lines = append(lines, WrappedLine{Text: string(runes[start:]), Start: start})
			break
		}

		switch {
		case runes[end] == ' ':
			// 恰好在空格处超宽
			lines = append(lines, WrappedLine{Text: string(runes[start:end]), Start: start})
			start = end + 1
		case lastSpace > start:
			lines = append(lines, WrappedLine{Text: string(runes[start:lastSpace]), Start: start})
			start = lastSpace + 1
		case end == start:
			// 单个字符就超宽，强制添加
			lines = append(lines, WrappedLine{Text: string(runes[start]), Start: start})
			start++
		default:
			lines = append(lines, WrappedLine{Text: string(runes[start:end]), Start: start})
			start = end
		}
	}

	if len(lines) == 0 {
		lines = []WrappedLine{{Text: textStr}}
	}
	return lines
}

// RevealWrapped 计算已显示 revealed 个字符时每一行可见的部分
//
// 换行基于完整文本计算，逐字显示时单词不会因为换行位置变化而跳行。
// 返回的切片与 lines 等长，尚未开始显示的行为空字符串。
func RevealWrapped(lines []WrappedLine, revealed int) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		visible := revealed - line.Start
		if visible <= 0 {
			continue
		}
		out[i] = RunePrefix(line.Text, visible)
	}
	return out
}

// RuneCount 按 Unicode 码点计算字符数
func RuneCount(s string) int {
	return utf8.RuneCountInString(s)
}

// RunePrefix 返回 s 的前 n 个字符（按 Unicode 码点）
// n 超过长度时返回 s 本身
func RunePrefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// measureTextWidth 测量文本宽度
func measureTextWidth(textStr string, font *text.GoTextFace) float64 {
	if textStr == "" || font == nil {
		return 0
	}

	width, _ := text.Measure(textStr, font, 0)
	return width
}
