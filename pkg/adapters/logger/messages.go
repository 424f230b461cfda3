package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Loading %s":                      "%s を読み込み中",
		"Loaded %s image %dx%d":           "%s 画像 %dx%d を読み込みました",
		"Starting export %s":              "エクスポート %s を開始します",
		"Composed %dx%d":                  "%dx%d に合成しました",
		"Encoding %s at quality %.2f":     "%s を品質 %.2f でエンコード中",
		"Encoded %d bytes in %d attempts": "%d バイトにエンコードしました（%d 回試行）",
		"Output saved to %s":              "出力を %s に保存しました",

		// Orchestration errors
		"Failed to load image: %s":        "画像の読み込みに失敗しました: %s",
		"Failed to compose image: %s":     "画像の合成に失敗しました: %s",
		"Failed to encode image: %s":      "画像のエンコードに失敗しました: %s",
		"Failed to write output: %s":      "出力の書き込みに失敗しました: %s",
		"Failed to save debug output: %s": "デバッグ出力の保存に失敗しました: %s",

		// Editor session
		"Image set: %dx%d %s":       "画像を設定: %dx%d %s",
		"Ignoring target width %q":  "目標幅 %q を無視します",
		"Ignoring target height %q": "目標高さ %q を無視します",

		// Decode stage
		"Decoded %s %dx%d (%d bytes)": "%s %dx%d をデコードしました（%d バイト）",

		// Compose stage
		"Composed %dx%d buffer":       "%dx%d のバッファを合成しました",
		"Resizing %dx%d to %dx%d":     "%dx%d を %dx%d にリサイズ中",
		"Watermark drawn in %d tiles": "透かしを %d 枚のタイルで描画しました",

		// Encode stage
		"Searching quality for %d byte target":                             "%d バイトの目標に合わせて品質を探索中",
		"Attempt %d: quality %.3f, %d bytes":                               "試行 %d: 品質 %.3f, %d バイト",
		"Target size %d bytes not reached, using %d bytes at quality %.2f": "目標サイズ %[1]d バイトに届きませんでした。品質 %.2[3]f の %[2]d バイトを使用します",
		"Failed to save debug attempt: %v":                                 "デバッグ用の試行結果の保存に失敗しました: %v",
	})
}
