package model

// Company is one row of the Receita Federal Empresas open-data layout.
// All values are kept as text, matching the source files.
type Company struct {
	CNPJBase         string `json:"cnpj_basico"`
	LegalName        string `json:"razao_social"`
	LegalNature      string `json:"natureza_juridica"`
	ResponsibleQualt string `json:"qualif_responsavel"`
	Capital          string `json:"capital_social"`
	Size             string `json:"porte_empresa"`
	FederativeEntity string `json:"ente_federativo"`
}

// Partner is one row of the Socios layout: a person or company holding a
// stake in a CNPJ base.
type Partner struct {
	CNPJBase      string `json:"cnpj_basico"`
	PartnerType   string `json:"identificador_socio"`
	Name          string `json:"nome_socio_razao_social"`
	Document      string `json:"cnpj_cpf_socio"`
	Qualification string `json:"qualificacao_socio"`
	EntryDate     string `json:"data_entrada_sociedade"`
	Country       string `json:"pais"`
	RepDocument   string `json:"cpf_representante"`
	RepName       string `json:"nome_representante"`
	RepQualif     string `json:"qualificacao_representante"`
	AgeBand       string `json:"faixa_etaria"`
}

// RegistryLookup is the bundle payload produced by the local registry phase.
type RegistryLookup struct {
	Company  *Company  `json:"company,omitempty"`
	Partners []Partner `json:"partners,omitempty"`
}
