package trainer

import (
	"fmt"
	"io"

	"ai-detector/internal/models"

	"github.com/olekukonko/tablewriter"
)

var reportLabels = []models.Label{models.LabelHuman, models.LabelAI}

// Evaluate compares predictions with the true labels of the held-out partition
func Evaluate(yTrue, yPred []models.Label) models.EvaluationMetrics {
	metrics := models.EvaluationMetrics{
		PerClass: make(map[models.Label]models.ClassMetrics, len(reportLabels)),
		Total:    len(yTrue),
	}
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return metrics
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	metrics.Accuracy = float64(correct) / float64(len(yTrue))

	for _, label := range reportLabels {
		var tp, fp, fn int
		for i := range yTrue {
			switch {
			case yTrue[i] == label && yPred[i] == label:
				tp++
			case yTrue[i] != label && yPred[i] == label:
				fp++
			case yTrue[i] == label && yPred[i] != label:
				fn++
			}
		}
		cm := models.ClassMetrics{
			Precision: ratio(tp, tp+fp),
			Recall:    ratio(tp, tp+fn),
			Support:   tp + fn,
		}
		if cm.Precision+cm.Recall > 0 {
			cm.F1 = 2 * cm.Precision * cm.Recall / (cm.Precision + cm.Recall)
		}
		metrics.PerClass[label] = cm

		metrics.MacroAvg.Precision += cm.Precision / float64(len(reportLabels))
		metrics.MacroAvg.Recall += cm.Recall / float64(len(reportLabels))
		metrics.MacroAvg.F1 += cm.F1 / float64(len(reportLabels))

		weight := float64(cm.Support) / float64(len(yTrue))
		metrics.WeightedAvg.Precision += cm.Precision * weight
		metrics.WeightedAvg.Recall += cm.Recall * weight
		metrics.WeightedAvg.F1 += cm.F1 * weight
	}
	metrics.MacroAvg.Support = len(yTrue)
	metrics.WeightedAvg.Support = len(yTrue)
	return metrics
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// WriteReport renders a classification report table
func WriteReport(w io.Writer, metrics models.EvaluationMetrics) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "Precision", "Recall", "F1", "Support"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)

	for _, label := range reportLabels {
		table.Append(reportRow(label.String(), metrics.PerClass[label]))
	}
	table.Append([]string{"", "", "", "", ""})
	table.Append([]string{"accuracy", "", "", fmt.Sprintf("%.2f", metrics.Accuracy), fmt.Sprintf("%d", metrics.Total)})
	table.Append(reportRow("macro avg", metrics.MacroAvg))
	table.Append(reportRow("weighted avg", metrics.WeightedAvg))
	table.Render()
}

func reportRow(name string, cm models.ClassMetrics) []string {
	return []string{
		name,
		fmt.Sprintf("%.2f", cm.Precision),
		fmt.Sprintf("%.2f", cm.Recall),
		fmt.Sprintf("%.2f", cm.F1),
		fmt.Sprintf("%d", cm.Support),
	}
}
