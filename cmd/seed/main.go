// Command seed writes the demo activities and users documents into the
// configured data directory. Existing documents are overwritten only with
// the -force flag.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/cyz/app-mentoria/internal/config"
	"github.com/cyz/app-mentoria/internal/model"
	"github.com/cyz/app-mentoria/internal/store"
)

func main() {
	force := flag.Bool("force", false, "overwrite existing documents")
	flag.Parse()

	cfg := config.Load()
	if !*force {
		for _, name := range []string{"activities.json", "users.json"} {
			if _, err := os.Stat(filepath.Join(cfg.DataDir, name)); err == nil {
				log.Fatalf("%s already exists in %s (use -force to overwrite)", name, cfg.DataDir)
			}
		}
	}

	st := store.New(cfg.DataDir)
	if err := st.SaveActivities(seedActivities()); err != nil {
		log.Fatalf("seed activities: %v", err)
	}
	if err := st.SaveUsers(seedUsers()); err != nil {
		log.Fatalf("seed users: %v", err)
	}
	log.Printf("seeded %s", cfg.DataDir)
}

func strptr(s string) *string { return &s }

func seedActivities() model.ActivitiesDoc {
	return model.ActivitiesDoc{
		"Comunicação Eficaz": {
			Description:     "Desenvolva habilidades de comunicação assertiva e escuta ativa para ambientes de tecnologia.",
			MentorName:      "Maria Silva",
			MentorEmail:     "maria.silva@womakerscode.org",
			Schedule:        "Quartas-feiras, 19:00 - 20:30",
			MaxParticipants: 25,
			SoftSkillsFocus: []string{"comunicação", "escuta ativa", "assertividade"},
			Requirements:    strptr("Interesse em melhorar habilidades interpessoais"),
			Participants: []model.Participant{
				{Name: "Ana", Email: "ana@womakerscode.org"},
				{Name: "Bruna", Email: "bruna@womakerscode.org"},
			},
		},
		"Liderança Feminina": {
			Description:     "Aprenda técnicas de liderança, influência e gestão de equipes diversas no setor de tecnologia.",
			MentorName:      "Ana Costa",
			MentorEmail:     "ana.costa@womakerscode.org",
			Schedule:        "Sábados, 10:00 - 11:30",
			MaxParticipants: 20,
			SoftSkillsFocus: []string{"liderança", "gestão de equipes", "influência"},
			Requirements:    strptr("Experiência mínima de 2 anos no mercado de trabalho"),
			Participants: []model.Participant{
				{Name: "Carla", Email: "carla@womakerscode.org"},
				{Name: "Daniela", Email: "daniela@womakerscode.org"},
			},
		},
		"Gestão do Tempo e Produtividade": {
			Description:     "Dicas práticas para organização, priorização de tarefas e equilíbrio entre vida pessoal e profissional.",
			MentorName:      "Beatriz Oliveira",
			MentorEmail:     "beatriz.oliveira@womakerscode.org",
			Schedule:        "Terças-feiras, 18:30 - 20:00",
			MaxParticipants: 30,
			SoftSkillsFocus: []string{"gestão do tempo", "produtividade", "organização"},
			Participants: []model.Participant{
				{Name: "Elisa", Email: "elisa@womakerscode.org"},
				{Name: "Claudia", Email: "claudia@womakerscode.org"},
			},
		},
		"Preparação para Entrevistas Técnicas": {
			Description:     "Simulações de entrevistas, dicas de apresentação e resolução de problemas para processos seletivos em tecnologia.",
			MentorName:      "Carla Santos",
			MentorEmail:     "carla.santos@womakerscode.org",
			Schedule:        "Quintas-feiras, 20:00 - 21:30",
			MaxParticipants: 15,
			SoftSkillsFocus: []string{"comunicação", "confiança", "resolução de problemas"},
			Requirements:    strptr("Conhecimentos básicos em alguma linguagem de programação"),
			Participants: []model.Participant{
				{Name: "Fernanda", Email: "fernanda@womakerscode.org"},
			},
		},
		"Construção de Currículo e LinkedIn": {
			Description:     "Orientações para criar um currículo atrativo e otimizar o perfil no LinkedIn para oportunidades em tecnologia.",
			MentorName:      "Diana Ferreira",
			MentorEmail:     "diana.ferreira@womakerscode.org",
			Schedule:        "Segundas-feiras, 19:30 - 21:00",
			MaxParticipants: 20,
			SoftSkillsFocus: []string{"marketing pessoal", "comunicação escrita", "networking"},
			Participants: []model.Participant{
				{Name: "Juliana", Email: "juliana@womakerscode.org"},
			},
		},
		"Planejamento de Estudos para Carreira Tech": {
			Description:     "Estratégias para montar um plano de estudos eficiente focado em tecnologia.",
			MentorName:      "Eduarda Lima",
			MentorEmail:     "eduarda.lima@womakerscode.org",
			Schedule:        "Domingos, 17:00 - 18:30",
			MaxParticipants: 25,
			SoftSkillsFocus: []string{"planejamento", "disciplina", "autogestão"},
			Participants:    []model.Participant{},
		},
		"Técnicas de Aprendizagem Ativa": {
			Description:     "Métodos para potencializar o aprendizado e retenção de conteúdos técnicos.",
			MentorName:      "Fernanda Rocha",
			MentorEmail:     "fernanda.rocha@womakerscode.org",
			Schedule:        "Quartas-feiras, 18:00 - 19:00",
			MaxParticipants: 20,
			SoftSkillsFocus: []string{"aprendizagem", "concentração", "método de estudos"},
			Participants:    []model.Participant{},
		},
		"Organização de Rotina de Estudos": {
			Description:     "Dicas práticas para criar e manter uma rotina de estudos produtiva.",
			MentorName:      "Gabriela Moreira",
			MentorEmail:     "gabriela.moreira@womakerscode.org",
			Schedule:        "Sextas-feiras, 19:00 - 20:00",
			MaxParticipants: 30,
			SoftSkillsFocus: []string{"organização", "disciplina", "hábitos"},
			Participants:    []model.Participant{},
		},
	}
}

func seedUsers() *model.UsersDoc {
	admin := model.User{Name: "Administradora", Email: "admin@womakerscode.org", Profile: "admin"}
	mentor := model.User{Name: "Maria Silva", Email: "maria.silva@womakerscode.org", Profile: "mentor"}
	participant := model.User{Name: "Ana Souza", Email: "ana@womakerscode.org", Profile: "participant"}
	return &model.UsersDoc{
		Profiles: map[string]model.Profile{
			"admin":       {Permissions: []string{"read", "create", "delete", "manage_participants"}},
			"mentor":      {Permissions: []string{"read", "manage_participants"}},
			"participant": {Permissions: []string{"read", "self_manage"}},
		},
		Users: map[string]model.User{
			"admin":       admin,
			"mentor":      mentor,
			"participant": participant,
		},
		CurrentUser: admin,
	}
}
