package prompt

import (
	"strings"

	"grantdraft/internal/steps"
)

// Preamble is the fixed role and output instruction at the top of every prompt.
const Preamble = "You are an expert research scientist and academic writer specializing in grant proposals for biomedical and psychological research. Your task is to assist users in designing robust scientific studies based on their grant application details. Provide clear, concise, and scientifically sound text for the requested section. When asked to generate data, provide it in a clean, machine-readable format like CSV."

// Compose builds the generation request for step. previousDocument, when
// non-empty, is inlined between "---" lines before the step instruction.
// Inputs are passed through unchanged, whatever their size.
func Compose(step steps.Step, context, previousDocument string) string {
	var sb strings.Builder
	sb.WriteString(Preamble)
	sb.WriteString("\n\n")

	if previousDocument != "" {
		sb.WriteString("Here is the study content so far for context:\n\n---\n")
		sb.WriteString(previousDocument)
		sb.WriteString("\n---\n\n")
	}

	sb.WriteString("Now, please generate the '" + step.Title + "' section. ")
	sb.WriteString(instruction(step.ID, context))
	return sb.String()
}

func instruction(id steps.ID, context string) string {
	switch id {
	case steps.Abstract:
		return "Use the following keywords and core ideas to write a compelling, 250-word abstract for the grant application:\n\n" + context
	case steps.Hypothesis:
		return "Based on the provided abstract, formulate one primary hypothesis and two secondary hypotheses:\n\n" + context
	case steps.Methodology:
		return "Based on the abstract and hypotheses, design a detailed methodology. Include sections for Participant Recruitment, Experimental Procedure, and Data Collection Techniques. Specify whether fMRI, EEG, or behavioral data is most appropriate. \n\nAbstract:\n" + context
	case steps.DataSimulation:
		return "Based on the previously defined methodology, generate a sample dataset in CSV format for a study with 20 participants. The dataset should simulate realistic data (e.g., fMRI BOLD signals, EEG microvolts, or behavioral response times). Include clear column headers."
	default:
		return "Write a section based on the following information:\n\n" + context
	}
}

// ResolveContext picks the subject text for a request. Past the first step an
// empty input falls back to the whole document written so far.
func ResolveContext(input string, stepIndex int, document string) string {
	if input == "" && stepIndex > 0 {
		return document
	}
	return input
}
