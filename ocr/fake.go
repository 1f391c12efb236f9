package ocr

import "context"

// StaticEngine returns fixed text or a fixed error. It backs tests and the
// --ocr=static server mode used when Tesseract is not installed.
type StaticEngine struct {
	Text string
	Err  error
}

func (e StaticEngine) Name() string { return "static" }

func (e StaticEngine) Recognize(_ context.Context, in Input) (Result, error) {
	if e.Err != nil {
		return Result{}, e.Err
	}
	lang := ""
	if len(in.Languages) > 0 {
		lang = in.Languages[0]
	}
	return Result{PlainText: e.Text, Language: lang}, nil
}
