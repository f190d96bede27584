package types

// Apply methods let each framework response slot itself into the aggregate
// without the caller switching on concrete types.

func (r *AgileResponse) Apply(fr *FrameworkResults)    { fr.Agile = r }
func (r *KanbanResponse) Apply(fr *FrameworkResults)   { fr.Kanban = r }
func (r *GTDResponse) Apply(fr *FrameworkResults)      { fr.GTD = r }
func (r *PARAResponse) Apply(fr *FrameworkResults)     { fr.PARA = r }
func (r *CustomResponse) Apply(fr *FrameworkResults)   { fr.Custom = r }
func (r *SemanticResponse) Apply(fr *FrameworkResults) { fr.Semantic = r }
