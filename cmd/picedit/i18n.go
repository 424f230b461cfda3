// Package main provides localization for the picedit CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Output":             "出力先",
		"Edit":               "編集",
		"Format and Quality": "形式と品質",
		"Resize":             "リサイズ",
		"Watermark":          "透かし",
		"Debug":              "デバッグ",
		"Logging":            "ログ",

		// Root command
		"Crop, rotate, resize and compress images": "画像の切り抜き・回転・リサイズ・圧縮",

		// Export command
		"Edit an image and save it in a web format": "画像を編集してWeb向けの形式で保存",

		// Info command
		"Show format, dimensions and size of an image": "画像の形式・サイズ・容量を表示",
		"%s: %s %dx%d, %d bytes":                       "%s: %s %dx%d, %d バイト",

		// Version command
		"Show version information": "バージョン情報を表示",
		"picedit version %s":       "picedit バージョン %s",

		// Output flags
		"Output image path":                               "出力画像のパス",
		"YAML configuration file":                         "YAML設定ファイル",
		"Output export summary to file (Markdown format)": "エクスポートサマリーをファイルに出力（Markdown形式）",

		// Edit flags
		"Crop rectangle in source pixels (x,y,width,height)": "元画像ピクセルでの切り抜き範囲（x,y,幅,高さ）",
		"Rotation in degrees":                                "回転角度（度）",
		"Mirror horizontally":                                "左右反転",
		"Mirror vertically":                                  "上下反転",
		"Zoom factor (0.5-3)":                                "ズーム倍率（0.5-3）",
		"Apply zoom to the exported pixels":                  "ズームを出力画像に適用",

		// Format and quality flags
		"Output format (jpeg, png, webp)":                    "出力形式（jpeg, png, webp）",
		"Encoder quality (0.01-1, overrides quality preset)": "エンコード品質（0.01-1、品質プリセットを上書き）",
		"Quality preset (low, medium, high)":                 "品質プリセット（low, medium, high）",
		"Target file size (e.g. 500KB, 1.5MB)":               "目標ファイルサイズ（例: 500KB, 1.5MB）",

		// Resize flags
		"Output width in pixels":                                    "出力幅（ピクセル）",
		"Output height in pixels":                                   "出力高さ（ピクセル）",
		"Do not derive the missing dimension from the aspect ratio": "縦横比から未指定の寸法を求めない",

		// Watermark flags
		"Watermark text":                         "透かしの文字列",
		"Watermark color (hex, e.g., #ffffff)":   "透かしの色（16進数、例: #ffffff）",
		"Watermark opacity (0-1)":                "透かしの不透明度（0-1）",
		"Watermark rotation in degrees":          "透かしの回転角度（度）",
		"Horizontal watermark spacing in pixels": "透かしの横間隔（ピクセル）",
		"Vertical watermark spacing in pixels":   "透かしの縦間隔（ピクセル）",

		// Debug flags
		"Enable debug output":        "デバッグ出力を有効化",
		"Directory for debug output": "デバッグ出力のディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Runtime messages
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
		"Summary saved to %s":           "サマリーを %s に保存しました",
		"Failed to write summary: %s":   "サマリーの書き込みに失敗しました: %s",

		// Error messages
		"Input file argument is required": "入力ファイル引数が必要です",
		"Output path is required":         "出力パスが必要です",

		// Summary content
		"Export Summary":  "エクスポートサマリー",
		"Generated":       "生成日時",
		"Source":          "元画像",
		"Edits":           "編集内容",
		"Settings":        "設定",
		"Item":            "項目",
		"Value":           "値",
		"File":            "ファイル",
		"Format":          "形式",
		"Dimensions":      "サイズ",
		"File Size":       "ファイルサイズ",
		"Rotation":        "回転",
		"Flip":            "反転",
		"Horizontal":      "左右",
		"Vertical":        "上下",
		"Crop":            "切り抜き",
		"Full image":      "画像全体",
		"Zoom":            "ズーム",
		"view only":       "表示のみ",
		"Quality":         "品質",
		"Target Size":     "目標サイズ",
		"keep aspect":     "縦横比維持",
		"Quality Used":    "使用した品質",
		"Encode Attempts": "エンコード試行回数",
		"Target Met":      "目標達成",
		"Yes":             "はい",
		"No":              "いいえ",
		"Export ID":       "エクスポートID",
		"None":            "なし",
		"Generated by":    "生成:",
	})
}
