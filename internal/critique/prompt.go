package critique

import (
	"fmt"
	"strconv"
	"strings"
)

// Languages the report can be written in.
const (
	LangEnglish  = "en"
	LangJapanese = "ja"
)

type promptTexts struct {
	system   string
	intro    string
	data     string
	checks   string
	output   string
	focus    string
	required string
	// checklist is formatted with minFontSize, minTouchTarget, minContrast.
	checklist string
}

var english = promptTexts{
	system: "You are a seasoned UI/UX designer and accessibility specialist. " +
		"You review Figma designs and write precise, actionable critique.",
	intro: "Below is a Figma design exported as a simplified %s node tree. " +
		"Analyze it from a UI/UX and accessibility point of view and write an improvement report in Markdown.",
	data:   "# Design data (%s)",
	checks: "# What to check",
	checklist: `## 1. Accessibility
- Contrast: point out places where text and background colors (see fills) are likely to fall below a %[3]s:1 contrast ratio.
- Font size: warn about any text smaller than %[1]spx.
- Touch targets: warn about interactive elements (buttons, links, inputs) narrower or shorter than %[2]spx.

## 2. Consistency
- Spacing: use absoluteBoundingBox to infer the gaps between elements and flag uneven spacing.
- Typography: flag inconsistent fontFamily or fontWeight usage.

## 3. Recommendations
- For every problem above give a concrete fix, for example "make the button at least %[2]spx tall" or "set body text to 16px".
- Name the affected layers by their name and id.`,
	output:   "# Output format\nWrite Markdown with headings and bullet lists so the report is easy to scan. Write the report in English.",
	focus:    "Focus areas (prioritize findings here):",
	required: "Required checks (always evaluate and report on each):",
}

var japanese = promptTexts{
	system: "あなたは熟練の UI/UX デザイナー兼アクセシビリティの専門家です。",
	intro: "以下の Figma デザインデータを簡略化した %s 形式のノードツリーとして提供します。" +
		"このデータを分析し、UI/UX およびアクセシビリティの観点から改善レポートを Markdown 形式で作成してください。",
	data:   "# デザインデータ（%s）",
	checks: "# 分析観点",
	checklist: `## 1. アクセシビリティ
- コントラスト比: 背景色と文字色（fills を参照）のコントラスト比が %[3]s:1 を下回りそうな箇所を指摘してください
- フォントサイズ: %[1]spx 未満のテキストがある場合は警告してください
- タッチターゲット: 幅または高さが %[2]spx 未満の要素（ボタンやリンクなど）がある場合は警告してください

## 2. 一貫性
- 余白: absoluteBoundingBox から推測される要素間の余白にばらつきがないか確認してください
- フォント: fontFamily や fontWeight に不統一な箇所がないか確認してください

## 3. 改善提案
- 上記の問題点に対して、具体的な修正例を提示してください
  例: 「ボタンの高さを %[2]spx 以上にする」「本文フォントサイズを 16px にする」など
- 該当するレイヤーは name と id で示してください`,
	output:   "# 出力形式\nMarkdown 形式で、見出しや箇条書きを使って読みやすく構造化してください。レポートは日本語で書いてください。",
	focus:    "重点的に確認する観点:",
	required: "必須チェック（必ず評価して結果を記載してください）:",
}

func textsFor(lang string) promptTexts {
	if lang == LangJapanese {
		return japanese
	}
	return english
}

// SystemPrompt returns the system prompt for the LLM in the given language.
func SystemPrompt(lang string) string {
	return textsFor(lang).system
}

// BuildUserPrompt embeds the encoded tree in a fenced block and appends the
// checklist, thresholds and check pack instructions. A nil pack uses the
// built-in thresholds.
func BuildUserPrompt(tree []byte, treeFormat, lang string, checks *Checks) string {
	if checks == nil {
		checks = DefaultChecks()
	}
	if treeFormat == "" {
		treeFormat = "json"
	}
	t := textsFor(lang)
	label := strings.ToUpper(treeFormat)

	var b strings.Builder
	fmt.Fprintf(&b, t.intro+"\n\n", label)
	fmt.Fprintf(&b, t.data+"\n", label)
	fence := fenceFor(tree)
	fmt.Fprintf(&b, "%s%s\n", fence, treeFormat)
	b.Write(tree)
	fmt.Fprintf(&b, "\n%s\n\n", fence)

	b.WriteString(t.checks + "\n\n")
	fmt.Fprintf(&b, t.checklist,
		formatNumber(checks.Thresholds.MinFontSize),
		formatNumber(checks.Thresholds.MinTouchTarget),
		formatNumber(checks.Thresholds.MinContrast))
	b.WriteString("\n")

	if section := checks.promptSection(lang); section != "" {
		b.WriteString(section)
	}

	b.WriteString("\n" + t.output + "\n")
	return b.String()
}

// fenceFor returns a backtick fence longer than any backtick run inside
// content, so layer text cannot close the block early.
func fenceFor(content []byte) string {
	longest, run := 0, 0
	for _, c := range content {
		if c == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
