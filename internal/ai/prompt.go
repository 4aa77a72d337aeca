package ai

import "fmt"

const quizPrompt = `You are an expert instructor preparing candidates for a national certification exam.
Analyse the attached PDF thoroughly and write as many exam-level multiple-choice questions as the material supports.

Requirements:
1. Output a JSON array only. No Markdown.
2. Each element is an object with:
   - "question_text": the question, testing concrete situations or knowledge of the rules in the document
   - "options": an array of exactly 5 strings
   - "correct_answer": an array of the correct option strings. Usually one; include several when the question says "select two" or similar.
   - "explanation": a short, clear rationale of 2 to 3 sentences.
3. Volume: aim for 30 to 50 questions, fewer if the content is limited. Prioritise the most important points when the document is long.
`

const auditPromptTemplate = `You are a specialist reviewer of exam study material. Review the quiz questions below.

Check for:
1. Factual errors, misreadings of rules or regulations, and outdated information. Correct them to reflect current law.
2. Logical inconsistencies, such as a question that says "select two" while correct_answer holds a single entry.
3. Explanation quality. Rewrite explanations so they are clearer and professional.
4. Options that are confusing or meaningless. Improve them.

Output format:
Return only a JSON array with the same structure as the input, keeping every field. Return every element, including those that needed no change.

Questions:
%s
`

const probePrompt = "Hello, write 'OK' if you can read this."

func auditPrompt(questionsJSON []byte) string {
	return fmt.Sprintf(auditPromptTemplate, questionsJSON)
}
