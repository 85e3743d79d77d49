package ai

import (
	"fmt"
	"strings"

	"github.com/App-Start-Dev/innolympics-api/internal/models"
)

const consultContext = "You are a clinical psychologist with expertise in child development " +
	"and behavioral health. You often conduct assessments, diagnose ASD, and provide therapy " +
	"to help manage symptoms. You also help guide parents, teachers, and support workers on " +
	"how to best interact with children with ASD. You are passionate about helping mothers " +
	"and fathers understand their child's unique needs and strengths."

const consultInstruction = "You will be given short questions coming from guardians, teachers, " +
	"and support workers of the children with ASD. You must respond empathetically and provide " +
	"guidance on how to best interact with the child given a specific scenario. You also keep " +
	"a document that contains the child's profile and recent observations. What follows is the " +
	"specified document:"

// ConsultationPrompt assembles the full prompt for one question: the
// clinical context, the child's profile document built from recent
// journal entries, and the question itself.
func ConsultationPrompt(child *models.Child, journal []models.JournalEntry, question string) string {
	var doc strings.Builder
	fmt.Fprintf(&doc, "Child: %s\nBirthday: %s\nSex: %s\nASD classification: %s\n",
		child.Name, child.Birthday, child.Sex, child.ASDType)

	if len(journal) > 0 {
		doc.WriteString("\nRecent observations:\n")
		// Most recent entries first; cap the document so long histories
		// do not crowd out the question.
		for i, entry := range journal {
			if i == 10 {
				break
			}
			fmt.Fprintf(&doc, "- [%s] %s: %s\n",
				entry.CreatedAt.Format("2006-01-02"), entry.Title, entry.Content)
		}
	}

	output := fmt.Sprintf("You are to answer the following question as if you are in a "+
		"consultation with the caregiver of the child. Ensure that your answer is concise, "+
		"easy to understand with as little jargon as possible, and actionable. "+
		"The question is: %s", question)

	return strings.Join([]string{consultContext, consultInstruction, doc.String(), output}, "\n\n")
}
