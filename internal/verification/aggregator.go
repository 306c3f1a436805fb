package verification

// AggregateSingle превращает ответ внешнего сервиса в результат одиночной проверки.
// Берётся первый результат; USI в ответе - тот, что прислал клиент.
// Пустой ответ - ErrUpstreamEmptyResponse.
func AggregateSingle(requestedUSI string, outcomes []Outcome) (Result, error) {
	if len(outcomes) == 0 {
		return Result{}, ErrUpstreamEmptyResponse
	}

	first := outcomes[0]
	return Result{
		RecordID: first.RecordID,
		USI:      requestedUSI,
		Status:   first.Status,
		Valid:    first.Status.IsValid(),
	}, nil
}

// AggregateBulk превращает ответ внешнего сервиса в итог пакетной проверки.
// totalRequested - количество записей в исходном запросе клиента, до пропуска
// записей без имени. Результаты сопоставляются с запросом по позиции, а не по RecordID.
func AggregateBulk(totalRequested int, outcomes []Outcome) Summary {
	summary := Summary{
		TotalRequested: totalRequested,
		Results:        make([]Result, 0, len(outcomes)),
	}

	for _, o := range outcomes {
		r := Result{
			RecordID: o.RecordID,
			USI:      o.USI,
			Status:   o.Status,
			Valid:    o.Status.IsValid(),
		}
		if r.Valid {
			summary.ValidCount++
		} else {
			summary.InvalidCount++
		}
		summary.Results = append(summary.Results, r)
	}

	return summary
}
