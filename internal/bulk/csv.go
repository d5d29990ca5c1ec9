package bulk

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/alphamano814/exam-jyoti/internal/domain"
)

// csvColumns is the expected column order of a bulk question upload.
var csvColumns = []string{
	"question", "option_a", "option_b", "option_c", "option_d",
	"correct_option", "explanation", "category", "subject", "difficulty", "language",
}

// ParseQuestionsCSV reads bulk-upload rows into questions. The first row may
// be a header (detected by its first cell); rows shorter than the required
// six answer columns are rejected, trailing optional columns may be omitted.
func ParseQuestionsCSV(r io.Reader) ([]domain.Question, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var questions []domain.Question
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), csvColumns[0]) {
			continue // header row
		}
		if len(record) < 6 {
			return nil, fmt.Errorf("line %d: expected at least 6 columns, got %d", line, len(record))
		}

		q := domain.Question{
			Prompt:        strings.TrimSpace(record[0]),
			OptionA:       strings.TrimSpace(record[1]),
			OptionB:       strings.TrimSpace(record[2]),
			OptionC:       strings.TrimSpace(record[3]),
			OptionD:       strings.TrimSpace(record[4]),
			CorrectOption: strings.ToUpper(strings.TrimSpace(record[5])),
		}
		if len(record) > 6 {
			q.Explanation = strings.TrimSpace(record[6])
		}
		if len(record) > 7 {
			q.Category = domain.Category(strings.TrimSpace(record[7]))
		}
		if len(record) > 8 {
			q.Subject = strings.TrimSpace(record[8])
		}
		if len(record) > 9 {
			q.Difficulty = strings.TrimSpace(record[9])
		}
		if len(record) > 10 {
			q.Language = strings.TrimSpace(record[10])
		}
		questions = append(questions, q)
	}
	return questions, nil
}
