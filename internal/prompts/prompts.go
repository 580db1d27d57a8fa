// Package prompts holds the system prompts shipped with the binary.
package prompts

import _ "embed"

//go:embed intake_classify.txt
var IntakeClassify string

//go:embed intake_analyse.txt
var IntakeAnalyse string
