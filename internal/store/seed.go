package store

import "youngtalents/pipeline-service/internal/model"

// SeedJobs returns the default openings used until a jobs backoffice
// exists.
func SeedJobs() []model.Job {
	return []model.Job{
		{
			ID:           "1",
			Title:        "Engenheiro Frontend Senior",
			Department:   "Engenharia",
			Location:     "Remoto (Brasil)",
			Type:         "Tempo Integral",
			Description:  "Procuramos um especialista em React para liderar nossas iniciativas de frontend.",
			Requirements: []string{"5+ anos React", "TypeScript", "Tailwind"},
			PostedDate:   "2024-05-01",
			Active:       true,
		},
		{
			ID:           "2",
			Title:        "Product Designer",
			Department:   "Design",
			Location:     "São Paulo, SP",
			Type:         "Tempo Integral",
			Description:  "Crie interfaces bonitas para nossos produtos SaaS.",
			Requirements: []string{"Domínio do Figma", "Design Systems", "Pesquisa de Usuário"},
			PostedDate:   "2024-05-05",
			Active:       true,
		},
	}
}

// SeedTemplates returns the default stage-triggered email templates.
func SeedTemplates() []model.EmailTemplate {
	return []model.EmailTemplate{
		{
			ID:            "1",
			TriggerStatus: "Considerado",
			Subject:       "Sua aplicação na Young Talents - Próximos Passos",
			Body:          "Olá {nome},\n\nFicamos felizes em informar que seu perfil avançou para a etapa de triagem. Em breve entraremos em contato.",
			Active:        true,
		},
		{
			ID:            "2",
			TriggerStatus: "Reprovado",
			Subject:       "Atualização sobre sua candidatura - Young Talents",
			Body:          "Olá {nome},\n\nAgradecemos seu interesse. Neste momento, optamos por seguir com outros candidatos mais alinhados ao perfil da vaga.",
			Active:        true,
		},
	}
}
